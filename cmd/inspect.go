package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/guzu92/neo4j/pkg/legacy"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Inspection describes the record stores of a legacy database.
	Inspection struct {
		StorageFileName string         `json:"storageFileName"`
		Stores          []StoreSummary `json:"stores"`
	}
	StoreSummary struct {
		Name    string `json:"name"`
		Path    string `json:"path"`
		Trailer string `json:"trailer"`
		Records int64  `json:"records"`
		InUse   int64  `json:"inUse"`
	}
)

func NewInspectCommand() *cobra.Command {
	v := newViper()
	cmd := &cobra.Command{
		Use:   "inspect <source-dir>",
		Short: "Print record counts and version trailers of the legacy record stores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ins, err := runInspect(ctx, zap.L().Named("inspect"), afero.NewReadOnlyFs(afero.NewOsFs()),
				filepath.Join(args[0], storeNameFlag(v)))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ins)
		},
	}

	flags := cmd.Flags()
	addStoreNameFlag(flags, v)

	return cmd
}

func runInspect(ctx context.Context, l *zap.Logger, fs afero.Fs, storageFileName string) (ins *Inspection, err error) {
	s, err := legacy.New(l, fs, storageFileName)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	ins = &Inspection{StorageFileName: storageFileName}

	nodes := StoreSummary{Name: "node", Path: s.NodeStoreReader().Path(), Records: s.NodeStoreReader().MaxID()}
	if err := s.NodeStoreReader().Walk(func(r legacy.NodeRecord) error {
		if r.InUse {
			nodes.InUse++
		}
		return ctx.Err()
	}); err != nil {
		return nil, err
	}
	if nodes.Trailer, err = s.NodeStoreReader().Trailer(); err != nil {
		return nil, err
	}
	ins.Stores = append(ins.Stores, nodes)

	index := StoreSummary{Name: "property-index", Path: s.PropertyIndexReader().Path(), Records: s.PropertyIndexReader().MaxID()}
	if err := s.PropertyIndexReader().Walk(func(r legacy.PropertyIndexRecord) error {
		if r.InUse {
			index.InUse++
		}
		return ctx.Err()
	}); err != nil {
		return nil, err
	}
	if index.Trailer, err = s.PropertyIndexReader().Trailer(); err != nil {
		return nil, err
	}
	ins.Stores = append(ins.Stores, index)

	props := StoreSummary{Name: "property", Path: s.PropertyStoreReader().Path(), Records: s.PropertyStoreReader().MaxID()}
	if err := s.PropertyStoreReader().Walk(func(r legacy.PropertyRecord) error {
		if r.InUse() {
			props.InUse++
		}
		return ctx.Err()
	}); err != nil {
		return nil, err
	}
	if props.Trailer, err = s.PropertyStoreReader().Trailer(); err != nil {
		return nil, err
	}
	ins.Stores = append(ins.Stores, props)

	rels := StoreSummary{Name: "relationship", Path: s.RelStoreReader().Path(), Records: s.RelStoreReader().MaxID()}
	if err := s.RelStoreReader().Walk(func(r legacy.RelationshipRecord) error {
		if r.InUse {
			rels.InUse++
		}
		return ctx.Err()
	}); err != nil {
		return nil, err
	}
	if rels.Trailer, err = s.RelStoreReader().Trailer(); err != nil {
		return nil, err
	}
	ins.Stores = append(ins.Stores, rels)

	return ins, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
