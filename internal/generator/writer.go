package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paynet-sim/paynet/internal/domain"
)

// File names used by WriteDataset and LoadDataset.
const (
	NetworkFileName  = "network.json"
	PaymentsFileName = "payments.json"
)

// networkFile is the on-disk shape of the topology half of a dataset.
type networkFile struct {
	Nodes    []domain.NodeID `json:"nodes"`
	Channels []ChannelSpec   `json:"channels"`
}

// WriteDataset serializes the dataset into network.json and payments.json
// under the provided directory.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	networkPath := filepath.Join(dir, NetworkFileName)
	err := writeJSON(networkPath, networkFile{
		Nodes:    dataset.Nodes,
		Channels: dataset.Channels,
	})
	if err != nil {
		return err
	}

	paymentsPath := filepath.Join(dir, PaymentsFileName)
	if err := writeJSON(paymentsPath, dataset.Payments); err != nil {
		return err
	}

	return nil
}

// LoadDataset reads a dataset previously written by WriteDataset. A missing
// payments file yields an empty load rather than an error, so a topology can
// be reused with ad-hoc payments.
func LoadDataset(dir string) (Dataset, error) {
	var net networkFile
	if err := readJSON(filepath.Join(dir, NetworkFileName), &net); err != nil {
		return Dataset{}, err
	}

	ds := Dataset{Nodes: net.Nodes, Channels: net.Channels}

	paymentsPath := filepath.Join(dir, PaymentsFileName)
	if _, err := os.Stat(paymentsPath); err != nil {
		if os.IsNotExist(err) {
			return ds, nil
		}
		return Dataset{}, fmt.Errorf("stat %s: %w", paymentsPath, err)
	}
	if err := readJSON(paymentsPath, &ds.Payments); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func writeJSON(path string, data any) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return fmt.Errorf("decode json from %s: %w", path, err)
	}
	return nil
}
