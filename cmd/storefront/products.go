package main

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/carpenter-backend/internal/listing"
	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
)

const browseHelp = `commands:
  search <text>      filter by name (3+ characters, empty clears)
  category <id|all>  filter by category
  page <n>           jump to a page
  next, prev         move one page
  clear              reset all filters
  quit               leave`

func (a *app) productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"p"},
		Short:   "Explore the product catalog",
	}
	cmd.AddCommand(a.browseCmd())
	return cmd
}

func (a *app) browseCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactive product listing",
		Long: `Interactive product listing with search, category filter and pagination.

The --query flag accepts the storefront URL query string, for example
"page=2&search=oak&category=3".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
			if err != nil {
				return fmt.Errorf("invalid --query: %w", err)
			}
			return a.browse(cmd, listing.ParseState(values))
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "initial listing state as a URL query string")
	return cmd
}

func (a *app) browse(cmd *cobra.Command, initial listing.State) error {
	c := listing.New(cmd.Context(), a.fetcher(), initial, listing.WithLogger(a.logg))
	defer c.Close()

	out := cmd.OutOrStdout()
	c.Start()
	c.Wait()
	printView(out, c.View())

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		verb, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(verb) {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "help", "?":
			fmt.Fprintln(out, browseHelp)
			continue
		case "search", "s":
			c.SetDraft(arg)
			c.CommitDraft()
			if v := c.View(); v.Draft != v.State.Search {
				fmt.Fprintf(out, "search needs at least %d characters\n", listing.MinSearchLength)
				continue
			}
		case "category", "c":
			if arg == "" {
				arg = listing.DefaultCategory
			}
			c.SetCategory(arg)
		case "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintln(out, "usage: page <n>")
				continue
			}
			c.SetPage(n)
		case "next", "n":
			v := c.View()
			if v.State.Page >= v.TotalPages {
				fmt.Fprintln(out, "already on the last page")
				continue
			}
			c.SetPage(v.State.Page + 1)
		case "prev", "p":
			v := c.View()
			if v.State.Page <= 1 {
				fmt.Fprintln(out, "already on the first page")
				continue
			}
			c.SetPage(v.State.Page - 1)
		case "clear":
			c.ClearFilters()
		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", verb)
			continue
		}
		c.Wait()
		printView(out, c.View())
	}
}

func printView(out io.Writer, v listing.View) {
	fmt.Fprintf(out, "\n?%s  (%d products)\n", v.State.Values().Encode(), v.TotalDocs)
	if len(v.Products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTHICKNESS (mm)\tWIDTH (in)\tHEIGHT (in)")
	for _, p := range v.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name,
			options(p.Dimensions.Thickness), options(p.Dimensions.Width), options(p.Dimensions.Height))
	}
	_ = tw.Flush()

	if v.TotalPages > 1 {
		fmt.Fprintln(out, "pages: "+windowText(v.Window, v.State.Page))
	}
}

func options(opts []dbtypes.DimensionOption) string {
	if len(opts) == 0 {
		return "-"
	}
	vals := make([]string, len(opts))
	for i, o := range opts {
		vals[i] = o.Value
	}
	return strings.Join(vals, ",")
}

func windowText(window []pagination.Marker, current int) string {
	parts := make([]string, len(window))
	for i, m := range window {
		switch {
		case m.IsDots():
			parts[i] = "…"
		case int(m) == current:
			parts[i] = "[" + strconv.Itoa(int(m)) + "]"
		default:
			parts[i] = strconv.Itoa(int(m))
		}
	}
	return strings.Join(parts, " ")
}
