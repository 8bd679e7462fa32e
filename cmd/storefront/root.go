package main

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/angelmondragon/carpenter-backend/internal/listing"
	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

const defaultAPIURL = "http://localhost:8080"

// app carries what every subcommand shares. Settings resolve flag first,
// then CARPENTER_* environment variables, then defaults.
type app struct {
	v    *viper.Viper
	in   io.Reader
	out  io.Writer
	logg *logger.Logger
	http *http.Client
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), in: in, out: out}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse The Carpenter catalog and build a quotation request",
		Long: `storefront is a terminal client for The Carpenter API.

  storefront products browse             Browse products interactively
  storefront quote add 12 --qty 2        Add a product to the local quotation
  storefront quote submit --name ...     Send the quotation request`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logg = logger.New(logger.Options{
				ServiceName: "storefront",
				Level:       logger.ParseLevel(a.v.GetString("log-level")),
				Output:      cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("api-url", defaultAPIURL, "base URL of the API (env CARPENTER_API_URL)")
	pf.String("cart-file", "", "quotation cart file (env CARPENTER_CART_FILE, default ~/.carpenter/carpenter-quotation.json)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlags(pf)
	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(a.productsCmd(), a.quoteCmd())
	return root
}

func (a *app) apiURL() string {
	return a.v.GetString("api-url")
}

func (a *app) fetcher() *listing.HTTPFetcher {
	return listing.NewHTTPFetcher(a.apiURL(), a.http)
}

// openStore loads the local cart. Persistence failures are logged and the
// command carries on with whatever is in memory.
func (a *app) openStore(ctx context.Context) (*quotation.Store, error) {
	path := a.v.GetString("cart-file")
	if path == "" {
		var err error
		if path, err = quotation.DefaultFilePath(); err != nil {
			return nil, err
		}
	}
	store := quotation.NewStore(
		quotation.NewFilePersister(path),
		quotation.WithErrorHandler(func(err error) {
			a.logg.Warn(a.logg.WithField(ctx, "cart_file", path), "quotation.persist_failed: "+err.Error())
		}),
	)
	store.Load(ctx)
	return store, nil
}
