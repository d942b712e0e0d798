// Command server runs the Chaum-Pedersen authentication service over
// HTTP, backed by one group.Group backend selected at start.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zkauthproto/sigma-auth/group"
	"github.com/zkauthproto/sigma-auth/registry"
	"github.com/zkauthproto/sigma-auth/service"
	"github.com/zkauthproto/sigma-auth/transport"
)

func main() {
	var host string
	var port int
	var backendType string
	var modpName string
	var curveName string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the Chaum-Pedersen authentication service",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := resolveGroup(backendType, modpName, curveName)
			if err != nil {
				return err
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("server: build logger: %w", err)
			}
			defer logger.Sync()
			sugar := logger.Sugar()

			svc := service.New(g, registry.New(), sugar)
			addr := net.JoinHostPort(host, fmt.Sprint(port))
			sugar.Infow("listening", "addr", addr, "group", g.Name())

			return http.ListenAndServe(addr, transport.NewRouter(svc, sugar))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&host, "host", "::1", "listen host")
	flags.IntVar(&port, "port", 50051, "listen port")
	flags.StringVar(&backendType, "type", "", "group backend type: discrete_log or elliptic_curve")
	flags.StringVar(&modpName, "modp", "", "MODP parameter set (required when --type=discrete_log)")
	flags.StringVar(&curveName, "curve", "", "curve (required when --type=elliptic_curve)")
	cmd.MarkFlagRequired("type")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func resolveGroup(backendType, modpName, curveName string) (group.Group, error) {
	switch backendType {
	case "discrete_log":
		if modpName == "" {
			return nil, fmt.Errorf("server: --modp is required when --type=discrete_log")
		}
		return group.ByModPName(modpName)
	case "elliptic_curve":
		if curveName == "" {
			return nil, fmt.Errorf("server: --curve is required when --type=elliptic_curve")
		}
		return group.ByCurveName(curveName)
	default:
		return nil, fmt.Errorf("server: --type must be discrete_log or elliptic_curve, got %q", backendType)
	}
}
