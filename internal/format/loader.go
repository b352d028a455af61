package format

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SignatureFile is the on-disk layout of a user supplied signature file:
//
//	signatures:
//	  - ext: raw
//	    description: Vendor raw image
//	    category: image
//	    magic: ["49492a00100000004352"]
//	    offset: 0
//	    trailer: ""
//	    kind: exif
type SignatureFile struct {
	Signatures []SignatureSpec `yaml:"signatures"`
}

type SignatureSpec struct {
	Ext         string   `yaml:"ext"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Magic       []string `yaml:"magic"`
	Offset      int      `yaml:"offset"`
	Trailer     string   `yaml:"trailer"`
	Kind        string   `yaml:"kind"`
}

func decodeHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(s)
	return hex.DecodeString(s)
}

// Signature converts a YAML entry into a Signature, validating it on the way.
func (s SignatureSpec) Signature() (Signature, error) {
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s.Ext)), ".")
	if ext == "" {
		return Signature{}, fmt.Errorf("signature without extension")
	}
	if len(s.Magic) == 0 {
		return Signature{}, fmt.Errorf("signature %q: no magic", ext)
	}
	if s.Offset < 0 || s.Offset >= DefaultWindowSize {
		return Signature{}, fmt.Errorf("signature %q: offset %d out of range", ext, s.Offset)
	}

	kind, err := ParseKind(s.Kind)
	if err != nil {
		return Signature{}, fmt.Errorf("signature %q: %w", ext, err)
	}

	sig := Signature{
		Ext:         ext,
		Description: s.Description,
		Category:    Category(strings.ToLower(s.Category)),
		Offset:      s.Offset,
		Kind:        kind,
	}

	for _, m := range s.Magic {
		magic, err := decodeHex(m)
		if err != nil {
			return Signature{}, fmt.Errorf("signature %q: invalid magic %q: %w", ext, m, err)
		}
		if len(magic) == 0 {
			return Signature{}, fmt.Errorf("signature %q: empty magic", ext)
		}
		sig.Magic = append(sig.Magic, magic)
	}

	if s.Trailer != "" {
		sig.Trailer, err = decodeHex(s.Trailer)
		if err != nil {
			return Signature{}, fmt.Errorf("signature %q: invalid trailer %q: %w", ext, s.Trailer, err)
		}
	}
	return sig, nil
}

// LoadSignatures reads signature files in order.
func LoadSignatures(paths ...string) ([]Signature, error) {
	var sigs []Signature
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read signature file %q: %w", path, err)
		}

		var file SignatureFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse signature file %q: %w", path, err)
		}

		for _, spec := range file.Signatures {
			sig, err := spec.Signature()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			sigs = append(sigs, sig)
		}
	}
	return sigs, nil
}
