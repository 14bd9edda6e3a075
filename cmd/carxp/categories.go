package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List and add the categories expenses and earnings are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			var categories []model.Category
			if typeName == "" {
				categories, err = store.GetCategories(ctx)
			} else {
				categoryType, parseErr := model.ParseCategoryType(typeName)
				if parseErr != nil {
					return parseErr
				}
				categories, err = store.GetCategoriesByType(ctx, categoryType)
			}
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'carxp categories add' to create one."))
				return nil
			}

			w := newTable(out, "ID", "Description", "Type")
			for _, cat := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Description, cat.Type)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "only categories of this type (expense, earning)")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		Example: `  carxp categories add "Manutenção"
  carxp categories add "Corridas" --type earning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			categoryType, err := model.ParseCategoryType(typeName)
			if err != nil {
				return err
			}

			category := model.Category{Description: args[0], Type: categoryType}
			if err := category.Validate(); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.InsertCategory(ctx, category.Description, category.Type)
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s category %q (id %d)", category.Type, category.Description, id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", model.CategoryTypeExpense.String(), "category type (expense, earning)")

	return cmd
}
