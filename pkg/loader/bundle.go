package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/limaJavier/courseplan/pkg/model"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// LoadBundle reads the whole raw input from a single JSON or YAML document, chosen by extension:
//
//	teachers:      [{name, capacity, availability: [14 x -1|0|1]}]
//	courses:       [{name, teachers: [...]}]
//	prerequisites: [{course, min_layer, prereqs: [...]}]
//	celebrities:   [{course, module, teacher}]
func LoadBundle(ctx context.Context, fs afs.Service, location string) (model.RawInput, error) {
	data, err := fs.DownloadWithURL(ctx, location)
	if err != nil {
		return model.RawInput{}, fmt.Errorf("cannot read %v: %w", location, err)
	}

	var document map[string]any
	switch extension := strings.ToLower(path.Ext(location)); extension {
	case ".json":
		err = json.Unmarshal(data, &document)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &document)
	default:
		return model.RawInput{}, fmt.Errorf("%w: unsupported bundle extension %q", ErrMalformed, extension)
	}
	if err != nil {
		return model.RawInput{}, fmt.Errorf("%w: %v: %v", ErrMalformed, location, err)
	}

	rawInput, err := model.DecodeRawInput(document)
	if err != nil {
		return model.RawInput{}, fmt.Errorf("%v: %w", location, err)
	}
	return rawInput, nil
}
