package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hanzoai/design-registry/internal/config"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/export"
	"github.com/hanzoai/design-registry/internal/infrastructure/sqlite"
	"github.com/hanzoai/design-registry/internal/presentation"
	"github.com/hanzoai/design-registry/internal/tracing"
)

func newBuildCmd(c *cli) *cobra.Command {
	var (
		trees bool
		keep  int
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Publish the registry as static JSON files",
		Long: `Publish the registry as static JSON files.

The files mirror the HTTP routes: styles/index.json, styles/<style>/index.json
and styles/<style>/<name>.json, plus styles/<style>/tree/<name>.json with
--trees. They are written to a directory, or to S3 when a bucket is set.
S3 credentials are read from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

With --sqlite the index is also stored as a snapshot in a SQLite database.

Examples:
  # Write public/r
  design-registry build

  # Upload to a bucket and keep a snapshot
  design-registry build --s3-bucket my-registry --sqlite registry.db

  # Include resolved dependency trees
  design-registry build --out dist/r --trees`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runBuild(cmd, trees, keep)
		},
	}
	cmd.Flags().StringP("out", "o", "", "output directory (default: export.dir)")
	cmd.Flags().String("s3-bucket", "", "publish to this S3 bucket instead of a directory")
	cmd.Flags().String("sqlite", "", "also store a snapshot in this SQLite database")
	cmd.Flags().BoolVar(&trees, "trees", false, "also publish resolved dependency trees")
	cmd.Flags().IntVar(&keep, "keep", 0, "snapshots to keep in the database (0 keeps all)")
	_ = c.v.BindPFlag("export.dir", cmd.Flags().Lookup("out"))
	_ = c.v.BindPFlag("export.s3.bucket", cmd.Flags().Lookup("s3-bucket"))
	_ = c.v.BindPFlag("export.sqlite_path", cmd.Flags().Lookup("sqlite"))
	return cmd
}

func (c *cli) runBuild(cmd *cobra.Command, trees bool, keep int) error {
	ctx := cmd.Context()
	svc, err := c.service()
	if err != nil {
		return err
	}
	tp, err := c.tracerProvider()
	if err != nil {
		return err
	}
	idx := svc.Index()

	opts := []export.Option{export.WithTracer(tp.Tracer())}
	if trees {
		opts = append(opts, export.WithTrees())
	}
	sink := newSink(c.cfg.Export)
	res, err := export.Publish(ctx, idx, sink, opts...)
	if err != nil {
		return err
	}

	out := presentation.KeyValues{
		{"index", res.IndexID},
		{"target", sink.Name()},
		{"styles", strconv.Itoa(res.Styles)},
		{"files", strconv.Itoa(res.Files)},
		{"bytes", strconv.FormatInt(res.Bytes, 10)},
	}

	if path := c.cfg.Export.SQLitePath; path != "" {
		snap, err := saveSnapshot(ctx, tp.Tracer(), path, idx, keep)
		if err != nil {
			return err
		}
		out = append(out,
			[2]string{"snapshot", strconv.FormatInt(snap.ID, 10)},
			[2]string{"snapshotItems", strconv.Itoa(snap.Items)},
		)
	}

	f, err := c.formatter(cmd)
	if err != nil {
		return err
	}
	return f.Write(out)
}

// newSink selects S3 when a bucket is configured and the export directory
// otherwise.
func newSink(ec config.ExportConfig) export.Sink {
	if ec.S3.Bucket == "" {
		return export.NewDirSink(ec.Dir)
	}
	client := export.NewS3Client(export.S3Options{
		Region:       ec.S3.Region,
		Endpoint:     ec.S3.Endpoint,
		UsePathStyle: ec.S3.UsePathStyle,
	})
	return export.NewS3Sink(client, ec.S3.Bucket, ec.S3.Prefix)
}

func saveSnapshot(ctx context.Context, tracer trace.Tracer, path string, idx *registry.Index, keep int) (snap *sqlite.Snapshot, err error) {
	ctx, span := tracer.Start(ctx, tracing.SpanSnapshot, trace.WithAttributes(
		attribute.String(tracing.AttrIndexID, idx.ID()),
	))
	defer func() { tracing.End(span, err) }()

	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	repo := db.SnapshotRepository()
	snap, err = repo.Save(ctx, idx)
	if err != nil {
		return nil, err
	}
	if keep > 0 {
		if _, err := repo.Prune(ctx, keep); err != nil {
			return nil, err
		}
	}
	span.SetAttributes(attribute.Int(tracing.AttrItemCount, snap.Items))
	return snap, nil
}
