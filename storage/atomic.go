package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/regginator/omniwordlist/errors"
)

// WriteFileAtomic writes data to path through a temporary file in the
// same directory that is fsynced and renamed into place. Readers never
// see a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.WrapKindf(err, errors.ErrStorage, "creating %s", tmp)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.WrapKindf(err, errors.ErrStorage, "writing %s", tmp)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.WrapKindf(err, errors.ErrStorage, "syncing %s", tmp)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.WrapKindf(err, errors.ErrStorage, "closing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.WrapKindf(err, errors.ErrStorage, "renaming %s into place", filepath.Base(path))
	}

	// make the rename durable
	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		dir.Sync()
		dir.Close()
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapKindf(err, errors.ErrSerialization, "encoding %s", filepath.Base(path))
	}
	return WriteFileAtomic(path, append(data, '\n'), 0600)
}

// readJSON decodes path into v. A missing file reports found=false with
// no error; a file that does not decode is a serialization error.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapKindf(err, errors.ErrStorage, "reading %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, errors.WithHint(
			errors.WrapKindf(err, errors.ErrSerialization, "parsing %s", path),
			"the file is corrupt; delete it to start the job over",
		)
	}
	return true, nil
}

// listJSON returns the stems of the .json files in dir, sorted.
func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapKindf(err, errors.ErrStorage, "listing %s", dir)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		out = append(out, name[:len(name)-len(".json")])
	}
	return out, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.WrapKindf(err, errors.ErrStorage, "removing %s", path)
	}
	return nil
}
