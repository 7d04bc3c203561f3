// Package app provides the docvault server application.
package app

import (
	"context"

	"github.com/kart-io/docvault/cmd/docvault/app/options"
	"github.com/kart-io/docvault/internal/docvault"
	"github.com/kart-io/docvault/pkg/app"
)

const commandDesc = `The docvault server stores uploaded documents as embedded
chunks in Milvus and answers semantic search and retrieval-grounded chat
requests over an HTTP API.`

// NewApp creates the docvault application.
func NewApp() *app.App {
	opts := options.NewServerOptions()

	return app.NewApp(
		app.WithName(docvault.Name),
		app.WithShortDescription("Document knowledge-base service"),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return run(opts)
		}),
	)
}

// run boots the server from completed and validated options.
func run(opts *options.ServerOptions) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	ctx := context.Background()
	server, err := cfg.NewServer(ctx)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
