package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/jsonschema"
	"github.com/reoring/apicontract/openapi2"
	"github.com/reoring/apicontract/openapi3"
)

func generateCmd(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var contractPath, generator, language, out string
	var verbose bool
	fs.StringVar(&contractPath, "contract", "", "contract file (.json, .yaml, .yml)")
	fs.StringVar(&generator, "generator", "", "openapi2, openapi3, json-schema or raw")
	fs.StringVar(&language, "language", "json", "output language (json|yaml)")
	fs.StringVar(&out, "out", ".", "output directory")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if contractPath == "" || generator == "" {
		fs.Usage()
		os.Exit(2)
	}
	if language != "json" && language != "yaml" {
		fatalf("unsupported language %q", language)
	}
	logf := verboseLogger(verbose)

	c, err := apicontract.LoadContractFile(contractPath)
	if err != nil {
		fatalf("loading contract: %v", err)
	}
	logf("loaded contract %q: %d types, %d endpoints", c.Name, len(c.Types), len(c.Endpoints))

	code, err := render(c, generator, language)
	if err != nil {
		fatalf("generate: %v", err)
	}

	base := strings.TrimSuffix(filepath.Base(contractPath), filepath.Ext(contractPath))
	dst := filepath.Join(out, base+"."+language)
	if err := os.MkdirAll(out, 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	if err := os.WriteFile(dst, code, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
	logf("wrote %s", dst)
}

// document is implemented by the OpenAPI documents.
type document interface {
	JSON() ([]byte, error)
	YAML() ([]byte, error)
}

func render(c *apicontract.Contract, generator, language string) ([]byte, error) {
	var doc document
	switch generator {
	case "openapi2":
		d, err := openapi2.Generate(c)
		if err != nil {
			return nil, err
		}
		doc = d
	case "openapi3":
		d, err := openapi3.Generate(c)
		if err != nil {
			return nil, err
		}
		doc = d
	case "json-schema":
		s, err := jsonschema.Generate(c)
		if err != nil {
			return nil, err
		}
		if language == "yaml" {
			return yaml.Marshal(s)
		}
		return json.MarshalIndent(s, "", "  ")
	case "raw":
		if _, err := c.TypeTable(); err != nil {
			return nil, err
		}
		raw, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		if language == "yaml" {
			return jsonToYAML(raw)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", generator)
	}
	if language == "yaml" {
		return doc.YAML()
	}
	return doc.JSON()
}

// jsonToYAML re-encodes JSON text as YAML, keeping key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

// clearStyle drops the flow and quoting styles carried over from JSON.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
