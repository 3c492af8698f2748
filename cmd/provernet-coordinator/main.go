// Copyright 2026 The Provernet Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/provernet/coordinator/lib/artifactdir"
	"github.com/provernet/coordinator/lib/blobstore"
	"github.com/provernet/coordinator/lib/clock"
	"github.com/provernet/coordinator/lib/config"
	"github.com/provernet/coordinator/lib/metrics"
	"github.com/provernet/coordinator/lib/process"
	"github.com/provernet/coordinator/lib/proofstore"
	"github.com/provernet/coordinator/lib/service"
	"github.com/provernet/coordinator/lib/signer"
	"github.com/provernet/coordinator/lib/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

func run(args []string) error {
	var flags service.CommonFlags
	flagSet := pflag.NewFlagSet("provernet-coordinator", pflag.ContinueOnError)
	service.RegisterCommonFlags(flagSet, &flags)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.ShowVersion {
		fmt.Printf("provernet-coordinator %s\n", version.Info())
		return nil
	}

	boot, err := service.Bootstrap(flags)
	if err != nil {
		return err
	}
	cfg, logger := boot.Config, boot.Logger

	logger.Info("provernet coordinator starting",
		"version", version.Info(),
		"environment", string(cfg.Environment),
	)

	encoding, err := blobstore.ParseEncoding(cfg.Blob.Compression)
	if err != nil {
		return err
	}

	collectors := metrics.New(metrics.BuildInfo{
		Version: version.Version,
		Commit:  version.Commit(),
	})

	blobs := blobstore.NewStore(encoding)
	collectors.TrackBlobObjects(blobs.Len)

	coordinator := newCoordinator(cfg, collectors, boot.Clock, logger)

	router := service.NewRouter(logger, boot.Clock)
	router.Observe(collectors.ObserveRPC)
	coordinator.registerActions(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	endpoints := endpoints{
		grpc: service.NewGRPCServer(service.GRPCServerConfig{
			Address:         cfg.RPC.Address,
			Router:          router,
			ShutdownTimeout: cfg.RPC.ShutdownTimeout,
			Logger:          logger,
		}),
		blob: service.NewHTTPServer(service.HTTPServerConfig{
			Address: cfg.Blob.Address,
			Handler: blobstore.NewHandler(blobstore.HandlerConfig{
				Store:          blobs,
				MaxObjectSize:  cfg.Blob.MaxObjectSize,
				AllowedOrigins: cfg.Blob.AllowedOrigins,
				Metrics:        collectors.Handler(),
				OnStored: func(id string, info blobstore.Info) {
					collectors.BlobStored(info.Size)
				},
				Logger: logger,
			}),
			Logger: logger,
		}),
		logger: logger,
	}
	if cfg.RPC.SocketPath != "" {
		endpoints.socket = service.NewSocketServer(cfg.RPC.SocketPath, router, logger)
	}

	if err := endpoints.serve(ctx); err != nil {
		return err
	}
	logger.Info("provernet coordinator stopped")
	return nil
}

// newCoordinator builds a Coordinator with empty stores from cfg.
func newCoordinator(cfg *config.Config, collectors *metrics.Metrics, clk clock.Clock, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		requests: proofstore.NewRequestStore(),
		programs: proofstore.NewProgramRegistry(),
		artifacts: artifactdir.New(artifactdir.Config{
			Bucket:        cfg.Artifacts.Bucket,
			PublicBaseURL: cfg.Blob.PublicBaseURL,
			UploadBaseURL: cfg.Blob.UploadBaseURL,
		}),
		auth: signer.NewAuthenticator(cfg.Signing.ProtocolName),
		uploader: blobstore.NewUploader(blobstore.UploaderConfig{
			Timeout: cfg.Blob.UploadTimeout,
			Logger:  logger,
		}),
		metrics: collectors,
		clock:   clk,
		random:  rand.Reader,
		logger:  logger,
	}
}

// endpoints are the servers run under one shutdown signal.
type endpoints struct {
	grpc *service.GRPCServer

	// socket is nil when rpc.socket_path is unset.
	socket *service.SocketServer

	blob   *service.HTTPServer
	logger *slog.Logger
}

// serve runs every endpoint until ctx is cancelled or one of them
// fails. The RPC servers drain first; the blob endpoint keeps serving
// until they have stopped, so that a FulfillProof finishing during the
// drain can still upload, and is then closed without a drain.
func (e endpoints) serve(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	blobCtx, cancelBlob := context.WithCancel(context.Background())
	defer cancelBlob()
	group.Go(func() error {
		return e.blob.Serve(blobCtx)
	})

	rpc, rpcCtx := errgroup.WithContext(groupCtx)
	rpc.Go(func() error {
		return e.grpc.Serve(rpcCtx)
	})
	if e.socket != nil {
		rpc.Go(func() error {
			return e.socket.Serve(rpcCtx)
		})
	}

	group.Go(func() error {
		defer cancelBlob()
		err := rpc.Wait()
		e.logger.Info("rpc endpoints stopped, closing blob endpoint")
		return err
	})

	return group.Wait()
}
