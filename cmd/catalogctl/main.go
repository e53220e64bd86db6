// Command catalogctl queries the catalog service over its internal gRPC API.
//
//	catalogctl get <id>
//	catalogctl suggest <query>
//
// Connection settings come from config.yaml, .env or CATALOGCTL_* variables;
// -addr overrides client.addr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pb "github.com/abgdnv/shoecatalog/pkg/api/catalog/v1"
	"github.com/abgdnv/shoecatalog/pkg/bootstrap"
	catalogclient "github.com/abgdnv/shoecatalog/pkg/client/grpc"
	"github.com/abgdnv/shoecatalog/pkg/config/configloader"
	"github.com/abgdnv/shoecatalog/pkg/logger"
	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const serviceName = "catalogctl"

var errUsage = errors.New("usage: catalogctl [-addr host:port] get <id> | suggest <query>")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if st, ok := status.FromError(err); ok {
			fmt.Fprintf(os.Stderr, "%s: %s\n", st.Code(), st.Message())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	addr := fs.String("addr", "", "catalog gRPC address, overrides client.addr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errUsage
	}

	if *addr != "" {
		if err := os.Setenv(strings.ToUpper(serviceName)+"_CLIENT_ADDR", *addr); err != nil {
			return err
		}
	}
	cfg, err := configloader.Load[*ctlConfig](serviceName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.SetDefault(bootstrap.NewLogger(cfg.Log.Level))

	client, conn, err := catalogclient.NewCatalogClient(cfg.Client, cfg.Resilience)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	reqID := uuid.NewString()
	slog.DebugContext(ctx, "calling catalog", "addr", cfg.Client.Addr, "request_id", reqID)
	ctx = metadata.AppendToOutgoingContext(ctx, logger.RequestIDMetadataKey, reqID)
	return execute(ctx, client, fs.Arg(0), strings.Join(fs.Args()[1:], " "), out)
}

// execute runs one command against client and writes the JSON result to out.
func execute(ctx context.Context, client pb.CatalogServiceClient, cmd, arg string, out io.Writer) error {
	var (
		res any
		err error
	)
	switch cmd {
	case "get":
		res, err = client.GetItem(ctx, &pb.GetItemRequest{Id: arg})
	case "suggest":
		res, err = client.Suggest(ctx, &pb.SuggestRequest{Query: arg})
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
