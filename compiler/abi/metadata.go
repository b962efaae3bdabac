package abi

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"neochain/errors"
)

// Metadata is the optional description of a contract supplied next to
// its source.
//
//	name: Token
//	author: Jane Doe
//	properties:
//	  payable: true
type Metadata struct {
	Name        string            `yaml:"name"`
	Author      string            `yaml:"author"`
	Email       string            `yaml:"email"`
	Version     string            `yaml:"version"`
	Description string            `yaml:"description"`
	Properties  PropertyOverrides `yaml:"properties"`
}

// PropertyOverrides sets contract properties explicitly. A nil field
// leaves the property as derived from the source.
type PropertyOverrides struct {
	Storage       *bool `yaml:"storage"`
	DynamicInvoke *bool `yaml:"dynamicInvoke"`
	Payable       *bool `yaml:"payable"`
}

// ParseMetadata decodes a YAML metadata document. Unknown fields are
// an error.
func ParseMetadata(data []byte) (*Metadata, error) {
	meta := new(Metadata)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(meta); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing contract metadata")
	}
	return meta, nil
}
