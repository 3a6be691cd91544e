package runner

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// tilesManifest is the optional YAML form of a --tiles file: a plain list
// of tile paths, in addition to the original plain-text one-path-per-line
// form.
type tilesManifest struct {
	Tiles []string `yaml:"tiles"`
}

// readTilesList reads a --tiles file (or stdin for "-"), accepting either
// a plain list of paths (one per line) or, when the path ends in .yaml or
// .yml, a YAML document with a top-level "tiles:" list.
func readTilesList(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	if strings.HasSuffix(strings.ToLower(path), ".yaml") || strings.HasSuffix(strings.ToLower(path), ".yml") {
		var manifest tilesManifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, errors.Wrapf(err, "%s: parsing YAML tiles manifest", path)
		}
		return manifest.Tiles, nil
	}

	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}
