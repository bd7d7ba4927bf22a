package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/oy3o/ebml"
	"github.com/pelletier/go-toml"
)

// Config is the TOML file read by init. Omitted header fields take the
// defaults of ebml.DefaultHeader.
type Config struct {
	Header ebml.Header `toml:"header"`
}

// ReadConfig decodes a Config and returns the header it describes.
func ReadConfig(r io.Reader) (ebml.Header, error) {
	cfg := &Config{}
	if err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return ebml.Header{}, fmt.Errorf("error decoding config file: %w", err)
	}
	h := cfg.Header
	def := ebml.DefaultHeader(h.DocType)
	for _, f := range []struct{ v, def *uint32 }{
		{&h.Version, &def.Version},
		{&h.ReadVersion, &def.ReadVersion},
		{&h.MaxIDWidth, &def.MaxIDWidth},
		{&h.MaxSizeWidth, &def.MaxSizeWidth},
		{&h.DocTypeVersion, &def.DocTypeVersion},
		{&h.DocTypeReadVersion, &def.DocTypeReadVersion},
	} {
		if *f.v == 0 {
			*f.v = *f.def
		}
	}
	if err := h.Validate(); err != nil {
		return ebml.Header{}, err
	}
	return h, nil
}

// ReadConfigFile reads a Config from path, expanding a leading ~.
func ReadConfigFile(path string) (ebml.Header, error) {
	f, err := os.Open(ExpandPath(path))
	if err != nil {
		return ebml.Header{}, err
	}
	defer f.Close()
	return ReadConfig(f)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	res, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return res
}
