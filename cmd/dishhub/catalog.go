package main

import (
	"fmt"

	"github.com/hyperjump/dishhub/internal/catalog"
	"github.com/hyperjump/dishhub/internal/cli"
	"github.com/hyperjump/dishhub/internal/models"
	"github.com/spf13/cobra"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "List and add recipe categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				format, err := a.outputFormat()
				if err != nil {
					return err
				}
				c, err := a.client()
				if err != nil {
					return err
				}
				categories := catalog.NewCategories(c, a.logger)
				if err := categories.Refresh(cmd.Context()); err != nil {
					return err
				}
				return cli.WriteCategories(cmd.OutOrStdout(), categories.List(), format)
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				categories := catalog.NewCategories(c, a.logger)
				if err := categories.Refresh(cmd.Context()); err != nil {
					return err
				}
				added, err := categories.Add(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %s\n", added.Name)
				return nil
			},
		},
	)
	return cmd
}

func newIngredientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredient",
		Short: "List, add and delete ingredients",
	}
	add := &cobra.Command{
		Use:   "add <name> <quantity>",
		Short: "Add an ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			added, err := catalog.NewIngredients(c).Add(cmd.Context(), models.IngredientInput{Name: args[0], Quantity: args[1]})
			if err != nil {
				return err
			}
			return cli.WriteIngredients(cmd.OutOrStdout(), []models.Ingredient{added}, format)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ingredients",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				format, err := a.outputFormat()
				if err != nil {
					return err
				}
				c, err := a.client()
				if err != nil {
					return err
				}
				ingredients := catalog.NewIngredients(c)
				if err := ingredients.Refresh(cmd.Context()); err != nil {
					return err
				}
				return cli.WriteIngredients(cmd.OutOrStdout(), ingredients.List(), format)
			},
		},
		add,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete an ingredient",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				if err := catalog.NewIngredients(c).Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted ingredient %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
