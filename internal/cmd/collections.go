package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

var collectionColumns = []components.GridColumn{
	{Header: "ID", Width: 5, Align: lipgloss.Right},
	{Header: "Name", Width: 24},
	{Header: "Items", Width: 5, Align: lipgloss.Right},
	{Header: "Visibility", Width: 10},
	{Header: "Description", Width: 20},
}

var itemColumns = []components.GridColumn{
	{Header: "ID", Width: 5, Align: lipgloss.Right},
	{Header: "Name", Width: 24},
	{Header: "Qty", Width: 5, Align: lipgloss.Right},
	{Header: "Value", Width: 10, Align: lipgloss.Right},
	{Header: "Description", Width: 20},
}

func collectionRows(cols []api.Collection) [][]string {
	rows := make([][]string, len(cols))
	for i, c := range cols {
		visibility := "private"
		if c.IsPublic {
			visibility = "public"
		}
		rows[i] = []string{c.ID.String(), c.Name, strconv.Itoa(c.ItemCount), visibility, c.Description}
	}
	return rows
}

func itemRows(items []api.Item) [][]string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{it.ID.String(), it.Name, strconv.Itoa(it.Quantity), money(it.EstimatedValue), it.Description}
	}
	return rows
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// --- Collections ---

// CollectionsCmd returns the `shelf collections` command group.
func CollectionsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "collections",
		Aliases:      []string{"c"},
		Short:        "Manage your collections",
		SilenceUsage: true,
	}
	cmd.AddCommand(collectionsListCmd(env))
	cmd.AddCommand(collectionsCreateCmd(env))
	cmd.AddCommand(collectionsDeleteCmd(env))
	return cmd
}

// mountDashboard loads the session user's collections.
func mountDashboard(cmd *cobra.Command, env *Env, confirm controller.Confirmer) (*controller.Dashboard, error) {
	dash := controller.NewDashboard(env.Client, env.Gate, confirm, env.logger())
	if _, err := dash.Mount(cmd.Context()); err != nil {
		return nil, explain(err)
	}
	return dash, nil
}

func collectionsListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, err := mountDashboard(cmd, env, controller.AlwaysConfirm)
			if err != nil {
				return err
			}
			cols := dash.Collections.Items()
			if len(cols) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no collections yet. create one with 'shelf collections create --name NAME'")
				return nil
			}
			printGrid(cmd.OutOrStdout(), collectionColumns, collectionRows(cols))
			return nil
		},
	}
}

func collectionsCreateCmd(env *Env) *cobra.Command {
	var name, description, imageURL string
	var public bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, err := mountDashboard(cmd, env, controller.AlwaysConfirm)
			if err != nil {
				return err
			}
			dash.Form.OpenCreate()
			dash.Form.ChangeField(controller.FieldName, name)
			dash.Form.ChangeField(controller.FieldDescription, description)
			dash.Form.ChangeField(controller.FieldImageURL, imageURL)
			dash.Form.ChangeField(controller.FieldIsPublic, strconv.FormatBool(public))
			if _, err := dash.Form.Submit(cmd.Context()); err != nil {
				return explain(err)
			}

			cols := dash.Collections.Items()
			created := cols[len(cols)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "created collection %s (id %s)\n", components.SanitizeOneLine(created.Name), created.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "collection name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "short description")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "cover image URL")
	cmd.Flags().BoolVar(&public, "public", false, "show the collection on your public profile")
	return cmd
}

func collectionsDeleteCmd(env *Env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection-id>",
		Short: "Delete a collection and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "collection")
			if err != nil {
				return err
			}
			dash, err := mountDashboard(cmd, env, env.confirmer(cmd, yes))
			if err != nil {
				return err
			}
			deleted, err := dash.Delete(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, controller.ErrNotFound) {
					return fmt.Errorf("collection %s not found", id)
				}
				return explain(err)
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "collection deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// --- Items ---

// ItemsCmd returns the `shelf items` command group.
func ItemsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "items",
		Aliases:      []string{"i"},
		Short:        "Manage the items of one of your collections",
		SilenceUsage: true,
	}
	cmd.AddCommand(itemsListCmd(env))
	cmd.AddCommand(itemsAddCmd(env))
	cmd.AddCommand(itemsDeleteCmd(env))
	return cmd
}

// mountCollection loads the items of one owned collection. Unknown ids,
// including other users' collections, are reported as not found.
func mountCollection(cmd *cobra.Command, env *Env, arg string, confirm controller.Confirmer) (*controller.CollectionDetails, error) {
	id, err := parseID(arg, "collection")
	if err != nil {
		return nil, err
	}
	details := controller.NewCollectionDetails(env.Client, env.Gate, confirm, env.logger())
	route, err := details.Mount(cmd.Context(), id)
	if err != nil {
		return nil, explain(err)
	}
	if route == controller.RouteDashboard {
		return nil, fmt.Errorf("collection %s not found", id)
	}
	return details, nil
}

func itemsListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection-id>",
		Short: "List the items of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := mountCollection(cmd, env, args[0], controller.AlwaysConfirm)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, components.SanitizeOneLine(details.Collection().Name))
			items := details.Items.Items()
			if len(items) == 0 {
				fmt.Fprintln(out, "no items yet")
				return nil
			}
			printGrid(out, itemColumns, itemRows(items))
			fmt.Fprintf(out, "\ntotal value %s\n", money(details.TotalValue()))
			return nil
		},
	}
}

func itemsAddCmd(env *Env) *cobra.Command {
	var name, description, quantity, value, imageURL string
	cmd := &cobra.Command{
		Use:   "add <collection-id>",
		Short: "Add an item to a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := mountCollection(cmd, env, args[0], controller.AlwaysConfirm)
			if err != nil {
				return err
			}
			form := details.Form
			form.OpenCreate()
			form.ChangeField(controller.FieldName, name)
			form.ChangeField(controller.FieldDescription, description)
			form.ChangeField(controller.FieldQuantity, quantity)
			form.ChangeField(controller.FieldEstimatedValue, value)
			form.ChangeField(controller.FieldImageURL, imageURL)
			if _, err := form.Submit(cmd.Context()); err != nil {
				return explain(err)
			}

			items := details.Items.Items()
			added := items[len(items)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (id %s), total value now %s\n",
				components.SanitizeOneLine(added.Name), added.ID, money(details.TotalValue()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "item name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "short description")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "1", "how many you own")
	cmd.Flags().StringVarP(&value, "value", "v", "", "estimated value of one unit")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "image URL")
	return cmd
}

func itemsDeleteCmd(env *Env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection-id> <item-id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseID(args[1], "item")
			if err != nil {
				return err
			}
			details, err := mountCollection(cmd, env, args[0], env.confirmer(cmd, yes))
			if err != nil {
				return err
			}
			deleted, err := details.Delete(cmd.Context(), itemID)
			if err != nil {
				if errors.Is(err, controller.ErrNotFound) {
					return fmt.Errorf("item %s not found in collection %s", itemID, args[0])
				}
				return explain(err)
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "item deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
