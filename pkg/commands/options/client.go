package options

import (
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/yourdiary/pkg/config"
)

// ClientOptions points the client at a service.
type ClientOptions struct {
	Server string
	Cookie string
}

// AddClientArgs registers the service flags and binds them to v so they
// override the config file and environment.
func AddClientArgs(cmd *cobra.Command, o *ClientOptions, v *viper.Viper) {
	cmd.PersistentFlags().StringVar(&o.Server, "server", "",
		base.Wrap80("Base URL of the diary service, example: --server=http://localhost:5000."))
	cmd.PersistentFlags().StringVar(&o.Cookie, "cookie", "",
		base.Wrap80("Value of the session cookie issued at login."))
	_ = v.BindPFlag(config.KeyServer, cmd.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag(config.KeyCookie, cmd.PersistentFlags().Lookup("cookie"))
}
