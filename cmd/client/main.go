// Command client registers a user and runs one authentication exchange
// against a running server command, printing the session identifier.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/zkauthproto/sigma-auth/client"
	"github.com/zkauthproto/sigma-auth/group"
	"github.com/zkauthproto/sigma-auth/transport"
)

func main() {
	var host string
	var port int
	var backendType string
	var modpName string
	var curveName string
	var user string
	var secret string

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Authenticate against a Chaum-Pedersen server",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := resolveGroup(backendType, modpName, curveName)
			if err != nil {
				return err
			}

			addr := net.JoinHostPort(host, fmt.Sprint(port))
			baseURL := "http://" + addr
			driver := client.New(g, transport.NewClient(baseURL, nil))

			sessionID, err := driver.RegisterAndAuthenticate(user, secret)
			if err != nil {
				return err
			}
			fmt.Println(sessionID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&host, "host", "::1", "server host")
	flags.IntVar(&port, "port", 50051, "server port")
	flags.StringVar(&backendType, "type", "", "group backend type: discrete_log or elliptic_curve")
	flags.StringVar(&modpName, "modp", "", "MODP parameter set (required when --type=discrete_log)")
	flags.StringVar(&curveName, "curve", "", "curve (required when --type=elliptic_curve)")
	flags.StringVar(&user, "user", "foo", "user identifier to authenticate as")
	flags.StringVar(&secret, "secret", "", "secret phrase; a random secret is used if omitted")
	cmd.MarkFlagRequired("type")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "client:", err)
		os.Exit(1)
	}
}

func resolveGroup(backendType, modpName, curveName string) (group.Group, error) {
	switch backendType {
	case "discrete_log":
		if modpName == "" {
			return nil, fmt.Errorf("client: --modp is required when --type=discrete_log")
		}
		return group.ByModPName(modpName)
	case "elliptic_curve":
		if curveName == "" {
			return nil, fmt.Errorf("client: --curve is required when --type=elliptic_curve")
		}
		return group.ByCurveName(curveName)
	default:
		return nil, fmt.Errorf("client: --type must be discrete_log or elliptic_curve, got %q", backendType)
	}
}
