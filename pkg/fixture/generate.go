package fixture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bromq-dev/mqttcodec/pkg/packet"
)

// Generator encodes variations and writes them to a sink.
type Generator struct {
	sink     Sink
	manifest bool
	log      *slog.Logger
}

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	// SkipManifest disables writing ManifestName after the fixtures.
	SkipManifest bool

	// Logger for logging. If nil, uses slog.Default().
	Logger *slog.Logger
}

// NewGenerator creates a generator writing into sink.
func NewGenerator(sink Sink, cfg *GeneratorConfig) *Generator {
	if cfg == nil {
		cfg = &GeneratorConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		sink:     sink,
		manifest: !cfg.SkipManifest,
		log:      logger,
	}
}

// Generate encodes each variation, stores it and returns the manifest
// describing what was written. It stops at the first failure.
func (g *Generator) Generate(ctx context.Context, variations []Variation) (*Manifest, error) {
	m := &Manifest{Version: ManifestVersion}

	buf := packet.GetBuffer()
	defer func() { packet.PutBuffer(buf) }()

	for _, v := range variations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var err error
		buf, err = packet.Append(buf[:0], v.Packet)
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", v.Name, err)
		}
		if err := g.sink.Put(ctx, v.FileName(), buf); err != nil {
			return nil, fmt.Errorf("fixture %s: %w", v.Name, err)
		}
		m.Add(v.FileName(), v.Packet.Type().String(), buf)

		g.log.Debug("fixture written",
			"fixture", v.Name,
			"type", v.Packet.Type().String(),
			"bytes", len(buf),
		)
	}

	if g.manifest {
		if err := WriteManifest(ctx, g.sink, m); err != nil {
			return nil, err
		}
	}

	g.log.Info("fixtures generated", "count", len(m.Entries), "manifest", g.manifest)
	return m, nil
}
