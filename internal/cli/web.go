package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"listily/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the JSON API for browser and mobile clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.cfg.Web.Addr
			}
			srv, err := web.NewServer(web.ServerConfig{
				Addr:    addr,
				DataDir: app.cfg.DataDir,
				Secret:  app.cfg.Web.Secret,
			}, nil, app.suggestClient(), app.log)
			if err != nil {
				return writeErr(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", srv.Addr())
			httpSrv := &http.Server{Addr: srv.Addr(), Handler: srv.Handler()}
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config web.addr)")
	return cmd
}
