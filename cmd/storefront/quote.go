package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

func (a *app) quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quote",
		Aliases: []string{"q"},
		Short:   "Manage the local quotation cart",
	}
	cmd.AddCommand(
		a.quoteAddCmd(),
		a.quoteRemoveCmd(),
		a.quoteSetCmd(),
		a.quoteListCmd(),
		a.quoteCountCmd(),
		a.quoteClearCmd(),
		a.quoteSubmitCmd(),
	)
	return cmd
}

func (a *app) quoteAddCmd() *cobra.Command {
	var sel quotation.SelectedDimensions
	var qty int
	cmd := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product; unset dimensions default to the first offered option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			ctx := cmd.Context()
			product, err := a.fetcher().Product(ctx, uint(id))
			if err != nil {
				return err
			}
			sel = quotation.DefaultSelection(product.Dimensions, sel)
			if !dbtypes.Offers(product.Dimensions.Thickness, sel.Thickness) ||
				!dbtypes.Offers(product.Dimensions.Width, sel.Width) ||
				!dbtypes.Offers(product.Dimensions.Height, sel.Height) {
				return fmt.Errorf("%s is not offered in %s", product.Name, sel.Text())
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			line := store.Add(ctx, quotation.ProductRef{
				ID:          product.ID,
				Name:        product.Name,
				Description: product.Description,
				ImageURL:    product.LegacyImageURL,
			}, sel, qty)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) x%d  [%s]\n", line.Product.Name, line.SelectedDimensions.Text(), line.Quantity, line.CartID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sel.Thickness, "thickness", "", "thickness in mm")
	f.StringVar(&sel.Width, "width", "", "width in inches")
	f.StringVar(&sel.Height, "height", "", "height in inches")
	f.IntVar(&qty, "qty", quotation.DefaultQuantity, "quantity")
	return cmd
}

func (a *app) quoteRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <lineId>",
		Aliases: []string{"rm"},
		Short:   "Remove a line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			store.Remove(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%d items in quotation\n", store.ItemCount())
			return nil
		},
	}
}

func (a *app) quoteSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <lineId> <qty>",
		Short: "Set a line's quantity; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if _, ok := store.Line(args[0]); !ok {
				return fmt.Errorf("no line %q in quotation", args[0])
			}
			store.UpdateQuantity(cmd.Context(), args[0], qty)
			fmt.Fprintf(cmd.OutOrStdout(), "%d items in quotation\n", store.ItemCount())
			return nil
		},
	}
}

func (a *app) quoteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the quotation lines",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			items := store.Items()
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Your quotation is empty.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LINE\tPRODUCT\tDIMENSIONS\tQTY")
			for _, l := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", l.CartID, l.Product.Name, l.SelectedDimensions.Text(), l.Quantity)
			}
			fmt.Fprintf(tw, "\t\tTotal items\t%d\n", store.ItemCount())
			return tw.Flush()
		},
	}
}

func (a *app) quoteCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the total quantity across lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.ItemCount())
			return nil
		},
	}
}

func (a *app) quoteClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the quotation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			store.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Quotation cleared.")
			return nil
		},
	}
}

func (a *app) quoteSubmitCmd() *cobra.Command {
	var (
		info quotation.CustomerInfo
		key  string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send the quotation request; the cart is kept if sending fails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if store.ItemCount() == 0 {
				return fmt.Errorf("your quotation is empty")
			}
			if key == "" {
				key = uuid.NewString()
			}
			ctx = quotation.WithIdempotencyKey(ctx, key)
			if err := quotation.SubmitStore(ctx, store, quotation.NewHTTPSubmitter(a.apiURL(), a.http), info); err != nil {
				msg := err.Error()
				if typed := pkgerrors.As(err); typed != nil {
					msg = typed.Message()
				}
				return fmt.Errorf("%s\nretry without sending twice: storefront quote submit --idempotency-key %s ...", msg, key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), quotation.MsgSubmitted)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&info.Name, "name", "", "your name")
	f.StringVar(&info.Email, "email", "", "your email")
	f.StringVar(&info.Phone, "phone", "", "phone number")
	f.StringVar(&info.Address, "address", "", "delivery address")
	f.StringVar(&info.Message, "message", "", "anything else we should know")
	f.StringVar(&key, "idempotency-key", "", "reuse the key printed by a failed submit so the quote is not mailed twice")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
