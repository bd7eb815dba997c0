package apicontract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
)

// DecodeContractJSON decodes a contract from its JSON wire shape.
func DecodeContractJSON(data []byte) (*Contract, error) {
	var c Contract
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("apicontract: decode contract: %w", err)
	}
	return &c, nil
}

// DecodeContractYAML decodes a contract written as YAML. Duplicate mapping
// keys are rejected with a *DuplicateKeyError.
func DecodeContractYAML(data []byte) (*Contract, error) {
	v, err := yamlToJSONValue(data)
	if err != nil {
		return nil, fmt.Errorf("apicontract: decode contract: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("apicontract: decode contract: %w", err)
	}
	return DecodeContractJSON(b)
}

// LoadContractFile reads a contract, choosing YAML for .yaml/.yml files and
// JSON otherwise.
func LoadContractFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeContractYAML(data)
	default:
		return DecodeContractJSON(data)
	}
}
