package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	commontrace "github.com/muliswilliam/vending-machine/common/telemetry/trace"
)

// JSONFile is a read-only JSON document on disk, such as the machine's seed
// data. Unknown fields are rejected.
type JSONFile struct {
	Path   string
	logger *slog.Logger
}

func NewJSONFile(path string, logger *slog.Logger) *JSONFile {
	return &JSONFile{Path: path, logger: logger.With(slog.String("file", path))}
}

// Load decodes the file into dest. When the file does not exist the error
// satisfies errors.Is(err, os.ErrNotExist).
func (f *JSONFile) Load(ctx context.Context, dest any) (err error) {
	ctx, span := commontrace.StartSpan(ctx,
		semconv.DBSystemKey.String("file"),
		semconv.DBOperationKey.String("LOAD"),
		semconv.DBNameKey.String(f.Path),
	)
	defer commontrace.EndSpan(span, &err)

	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()
	if err = dec.Decode(dest); err != nil {
		f.logger.ErrorContext(ctx, "Could not decode JSON file", slog.Any("error", err))
		return fmt.Errorf("decoding %s: %w", f.Path, err)
	}

	f.logger.DebugContext(ctx, "JSON file loaded")
	return nil
}
