// Package yaml loads sacamantecas profiles from YAML files.
//
// A profiles file is a mapping from profile name to that profile's keys:
//
//	bne:
//	  uri: 'catalogo\.bne\.es'
//	  m_tag: dl
//	  m_attr: class
//	  m_value: docu_etiq
//	ceres:
//	  uri: 'ceres\.mcu\.es'
//	  k_class: tabla1TituloMB
//	  v_class: celdaTablaR
//
// Profiles are registered in file order, which decides which profile wins
// when several URI patterns match.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/sacamantecas"
	"gopkg.in/yaml.v3"
)

// LoadRegistryFile reads the profiles file at path.
func LoadRegistryFile(path string) (*sacamantecas.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "cannot open profiles file: %v", err)
	}
	defer f.Close()

	return LoadRegistry(f)
}

// LoadRegistry parses profiles from r and builds a Registry.
// Returns ECONFIG for syntax errors, unexpected shapes, duplicate profile
// names, and any profile NewProfile rejects.
func LoadRegistry(r io.Reader) (*sacamantecas.Registry, error) {
	configs, err := ParseProfiles(r)
	if err != nil {
		return nil, err
	}
	return sacamantecas.LoadRegistry(configs)
}

// ParseProfiles decodes raw profile sections from r in file order.
func ParseProfiles(r io.Reader) ([]sacamantecas.ProfileConfig, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "invalid profiles file: %v", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "line %d: profiles file must be a mapping of profile names", root.Line)
	}

	seen := make(map[string]bool, len(root.Content)/2)
	configs := make([]sacamantecas.ProfileConfig, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		nameNode, body := root.Content[i], root.Content[i+1]

		name := nameNode.Value
		if seen[name] {
			return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "line %d: duplicate profile name %q", nameNode.Line, name)
		}
		seen[name] = true

		fields, err := decodeFields(name, body)
		if err != nil {
			return nil, err
		}
		configs = append(configs, sacamantecas.ProfileConfig{Name: name, Fields: fields})
	}
	return configs, nil
}

// decodeFields reads one profile body, which must map keys to scalars.
func decodeFields(name string, body *yaml.Node) (map[string]string, error) {
	if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
		return map[string]string{}, nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "line %d: profile %q must be a mapping", body.Line, name)
	}

	fields := make(map[string]string, len(body.Content)/2)
	for i := 0; i+1 < len(body.Content); i += 2 {
		k, v := body.Content[i], body.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "line %d: profile %q key %q must be a string", v.Line, name, k.Value)
		}
		if _, dup := fields[k.Value]; dup {
			return nil, sacamantecas.Errorf(sacamantecas.ECONFIG, "line %d: profile %q repeats key %q", k.Line, name, k.Value)
		}
		fields[k.Value] = v.Value
	}
	return fields, nil
}
