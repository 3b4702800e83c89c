package dataset

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spatialbench/spatialbench/internal/storage"
)

// Fetch mirrors the parquet objects under remotePrefix into localDir,
// preserving the {role}/file layout. Returns the number of files
// downloaded.
func Fetch(ctx context.Context, store storage.ObjectStore, remotePrefix, localDir string, logger *slog.Logger) (int, error) {
	infos, err := store.List(ctx, remotePrefix)
	if err != nil {
		return 0, err
	}

	cleaned := strings.Trim(path.Clean(remotePrefix), "/")
	count := 0
	for _, info := range infos {
		if !strings.HasSuffix(info.Key, ".parquet") {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(info.Key, cleaned), "/")
		if rel == "" || strings.Contains(rel, "..") {
			return count, fmt.Errorf("refusing object key %q", info.Key)
		}

		dest := filepath.Join(localDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return count, fmt.Errorf("create local dir for %q: %w", rel, err)
		}
		reader, err := store.Get(ctx, info.Key)
		if err != nil {
			return count, fmt.Errorf("get object %q: %w", info.Key, err)
		}
		if err := writeFile(dest, reader); err != nil {
			_ = reader.Close()
			return count, fmt.Errorf("write %q: %w", dest, err)
		}
		if err := reader.Close(); err != nil {
			return count, fmt.Errorf("close object %q: %w", info.Key, err)
		}
		count++
		logger.Info("object downloaded", slog.String("key", info.Key), slog.Int64("bytes", info.Size))
	}
	if count == 0 {
		return 0, fmt.Errorf("no parquet objects under prefix %q", remotePrefix)
	}
	return count, nil
}

// Publish uploads every parquet file under localDir to the object store at
// remotePrefix, preserving the role layout.
func Publish(ctx context.Context, store storage.ObjectStore, localDir, remotePrefix string, logger *slog.Logger) (int, error) {
	count := 0
	err := filepath.WalkDir(localDir, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".parquet") {
			return nil
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		key := path.Join(strings.Trim(remotePrefix, "/"), filepath.ToSlash(rel))

		file, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("open %q: %w", p, err)
		}
		defer func() { _ = file.Close() }()

		stat, err := file.Stat()
		if err != nil {
			return fmt.Errorf("stat %q: %w", p, err)
		}
		if _, err := store.Put(ctx, key, file, stat.Size(), storage.PutOptions{ContentType: "application/vnd.apache.parquet"}); err != nil {
			return fmt.Errorf("put object %q: %w", key, err)
		}
		count++
		logger.Info("object uploaded", slog.String("key", key), slog.Int64("bytes", stat.Size()))
		return nil
	})
	if err != nil {
		return count, err
	}
	if count == 0 {
		return 0, fmt.Errorf("no parquet files under %q", localDir)
	}
	return count, nil
}

func writeFile(path string, reader io.Reader) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if _, err := io.Copy(file, reader); err != nil {
		return err
	}
	return nil
}
