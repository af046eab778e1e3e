package plugin

import (
	"os"
	"path/filepath"

	"github.com/Iron-Ham/pdfcontainer/internal/errors"
	"github.com/Iron-Ham/pdfcontainer/internal/store"
)

// Export is the export capability. Downloads write the original document
// bytes into the export directory.
type Export struct {
	rt  *Runtime
	dir string
}

// Download writes the document and returns the written path.
func (e *Export) Download() (string, error) {
	doc := e.rt.Document()
	if doc == nil {
		return "", errors.Wrap(errors.ErrNotReady, "export")
	}

	path, err := e.write(doc.Name, doc.Data)
	update(e.rt, store.ExportPlugin, func(prev store.ExportState) store.ExportState {
		if err != nil {
			prev.LastError = err.Error()
			return prev
		}
		return store.ExportState{LastPath: path}
	})
	if err != nil {
		e.rt.logger.Warn("download failed", "document", doc.Name, "error", err)
		return "", err
	}
	e.rt.logger.Info("document downloaded", "path", path)
	return path, nil
}

func (e *Export) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create export directory")
	}
	path := filepath.Join(e.dir, filepath.Base(name))
	tmp, err := os.CreateTemp(e.dir, ".download-*")
	if err != nil {
		return "", errors.Wrap(err, "create download")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "write download")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "write download")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "write download")
	}
	return path, nil
}
