package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/ebml"
	"github.com/oy3o/ebml/objects"
)

func TestReadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		h, err := ReadConfig(strings.NewReader("[header]\ndoctype = \"x\"\nmax_size_width = 3\n"))
		require.NoError(t, err)
		want := ebml.DefaultHeader("x")
		want.MaxSizeWidth = 3
		assert.Equal(t, want, h)
	})

	t.Run("InvalidWidth", func(t *testing.T) {
		_, err := ReadConfig(strings.NewReader("[header]\ndoctype = \"x\"\nmax_id_width = 9\n"))
		assert.ErrorIs(t, err, ebml.ErrInvalidHeader)
	})

	t.Run("MissingDocType", func(t *testing.T) {
		_, err := ReadConfig(strings.NewReader("[header]\nversion = 2\n"))
		assert.ErrorIs(t, err, ebml.ErrInvalidHeader)
	})

	t.Run("BadTOML", func(t *testing.T) {
		_, err := ReadConfig(strings.NewReader("[header\n"))
		assert.Error(t, err)
	})
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ebml.toml")
	require.NoError(t, os.WriteFile(path, []byte("[header]\ndoctype = \"cfg\"\n"), 0o644))
	h, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, ebml.DefaultHeader("cfg"), h)

	_, err = ReadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"0x4081", "130"})
	require.NoError(t, err)
	assert.Equal(t, map[ebml.ID]bool{0x4081: true, 0x82: true}, ids)

	_, err = parseIDs([]string{"nope"})
	assert.Error(t, err)
}

func TestDumpElements(t *testing.T) {
	data, err := ebml.Marshal(registry, ebml.DefaultHeader("t"), 0x4081, &objects.Int{Value: 5})
	require.NoError(t, err)

	r, err := ebml.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	rows, err := dumpElements(r, map[ebml.ID]bool{0x4081: true})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	off := rows[0].Offset
	assert.Equal(t, int64(len(data))-15, off)
	assert.Equal(t, []element{
		{Depth: 0, Offset: off, ID: 0x4081, Length: 15},
		{Depth: 1, Offset: off + 6, ID: ebml.ClassNameID, Length: 6},
		{Depth: 1, Offset: off + 12, ID: ebml.ObjectDataID, Length: 3},
	}, rows)

	r, err = ebml.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	rows, err = dumpElements(r, nil)
	require.NoError(t, err)
	assert.Equal(t, []element{{Depth: 0, Offset: off, ID: 0x4081, Length: 15}}, rows)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()

	t.Run("InitAndHeader", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ebml")
		out, err := execute(t, "init", path, "--config=", "--doctype=demo")
		require.NoError(t, err)
		assert.Contains(t, out, "Successfully initialized")

		out, err = execute(t, "header", path)
		require.NoError(t, err)
		assert.Contains(t, out, "demo")
		assert.Contains(t, out, ebml.DocTypeID.String())
	})

	t.Run("InitFromConfig", func(t *testing.T) {
		cfg := filepath.Join(dir, "ebml.toml")
		require.NoError(t, os.WriteFile(cfg, []byte("[header]\ndoctype = \"fromcfg\"\n"), 0o644))
		path := filepath.Join(dir, "cfg.ebml")
		_, err := execute(t, "init", path, "--config="+cfg)
		require.NoError(t, err)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		r, err := ebml.NewReader(f)
		require.NoError(t, err)
		assert.Equal(t, ebml.DefaultHeader("fromcfg"), r.Header())
	})

	t.Run("ShowAndDump", func(t *testing.T) {
		path := filepath.Join(dir, "int.ebml")
		require.NoError(t, ebml.Save(registry, path, objects.FileDocType, &objects.Int{Value: 7}))

		out, err := execute(t, "show", path, "--doctype="+objects.FileDocType)
		require.NoError(t, err)
		assert.Contains(t, out, "SInt &{Value:7}")

		out, err = execute(t, "dump", path, "--master=0x4081")
		require.NoError(t, err)
		assert.Contains(t, out, "0x4081")
		assert.Contains(t, out, "0x82")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := execute(t, "header", filepath.Join(dir, "missing.ebml"))
		assert.Error(t, err)
	})
}
