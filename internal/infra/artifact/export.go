package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qrcard/internal/domain/issuance"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zip"
)

const (
	imagesDir    = "images"
	archivesDir  = "archives"
	infoFile     = "generation_info.txt"
	manifestFile = "manifest.json"

	dirTimeLayout = "20060102_150405"
)

// FSExporter lays out one directory per issuance run under root:
//
//	<slug>_<YYYYMMDD_HHMMSS>_<run id>/
//	  generation_info.txt
//	  manifest.json
//	  images/
//	  archives/
type FSExporter struct {
	root string
}

func NewFSExporter(root string) *FSExporter {
	return &FSExporter{root: root}
}

func (e *FSExporter) Begin(_ context.Context, info commands.ExportInfo) (commands.Export, error) {
	name := fmt.Sprintf("%s_%s_%s", info.Slug, info.StartedAt.Format(dirTimeLayout), strings.ToLower(info.RunID))
	dir := filepath.Join(e.root, name)

	for _, sub := range []string{imagesDir, archivesDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, errs.Wrap(err, "create export directory")
		}
	}

	if err := os.WriteFile(filepath.Join(dir, infoFile), []byte(generationInfo(info)), 0o644); err != nil {
		return nil, errs.Wrap(err, "write generation info")
	}
	return &runExport{dir: dir}, nil
}

func generationInfo(info commands.ExportInfo) string {
	var b strings.Builder
	b.WriteString("QR Code Generation Info\n")
	b.WriteString("=======================\n")
	fmt.Fprintf(&b, "Company: %s\n", info.CompanyName)
	fmt.Fprintf(&b, "Card ID: %s\n", info.CardID)
	fmt.Fprintf(&b, "Run ID: %s\n", info.RunID)
	fmt.Fprintf(&b, "Base URL: %s\n", info.BaseURL)
	fmt.Fprintf(&b, "Requested: %s\n", humanize.Comma(int64(info.Requested)))
	fmt.Fprintf(&b, "Generated: %s\n", info.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Store: %s\n", info.StoreDriver)
	return b.String()
}

type runExport struct {
	dir string
}

func (r *runExport) Dir() string {
	return r.dir
}

func (r *runExport) SaveImage(name string, data []byte) error {
	return os.WriteFile(filepath.Join(r.dir, imagesDir, name), data, 0o644)
}

func (r *runExport) CreateSegment(name string) (commands.SegmentWriter, error) {
	f, err := os.Create(filepath.Join(r.dir, archivesDir, name))
	if err != nil {
		return nil, err
	}
	return &zipSegment{file: f, zw: zip.NewWriter(f)}, nil
}

func (r *runExport) WriteManifest(m issuance.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, manifestFile), append(data, '\n'), 0o644)
}

// Size is the total size of every file under the run directory.
func (r *runExport) Size() (int64, error) {
	var total int64
	err := filepath.WalkDir(r.dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, err
}

type zipSegment struct {
	file *os.File
	zw   *zip.Writer
}

func (s *zipSegment) Add(name string, data []byte) error {
	w, err := s.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (s *zipSegment) Finalize() error {
	if err := s.zw.Close(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
