package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/dishhub/internal/catalog"
	"github.com/hyperjump/dishhub/internal/cli"
	"github.com/hyperjump/dishhub/internal/client"
	"github.com/hyperjump/dishhub/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Show, create, update and delete recipes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one recipe",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				format, err := a.outputFormat()
				if err != nil {
					return err
				}
				c, err := a.client()
				if err != nil {
					return err
				}
				r, err := c.GetRecipe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return cli.WriteRecipe(cmd.OutOrStdout(), r, format)
			},
		},
		&cobra.Command{
			Use:   "mine",
			Short: "List the recipes you created",
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
				recipes, err := c.MyRecipes(cmd.Context())
				if err != nil {
					return err
				}
				return cli.WriteRecipes(cmd.OutOrStdout(), recipes, format)
			},
		},
		newRecipeWriteCmd(a, "create <file>", "Create a recipe from a YAML or JSON file", cobra.ExactArgs(1)),
		newRecipeWriteCmd(a, "update <id> <file>", "Replace a recipe you own with the contents of a YAML or JSON file", cobra.ExactArgs(2)),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a recipe you own",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				if err := c.DeleteRecipe(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted recipe %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newRecipeWriteCmd(a *app, use, short string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Ingredients may be given by id or by name; names are looked up in the
ingredient list. Instructions may be a "steps" list or one block of text with
one step per line.`,
		Args: args,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			in, err := readRecipeInput(args[len(args)-1])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := resolveIngredients(cmd.Context(), c, &in); err != nil {
				return err
			}
			var r *models.Recipe
			if len(args) == 2 {
				r, err = c.UpdateRecipe(cmd.Context(), args[0], in)
			} else {
				r, err = c.CreateRecipe(cmd.Context(), in)
			}
			if err != nil {
				return err
			}
			return cli.WriteRecipe(cmd.OutOrStdout(), r, format)
		},
	}
}

// readRecipeInput decodes an authoring file. Files ending in .json are JSON;
// anything else is YAML.
func readRecipeInput(path string) (models.RecipeInput, error) {
	var in models.RecipeInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("failed to read recipe file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var wire struct {
			models.RecipeInput
			Steps []string `json:"steps"`
		}
		if err := json.Unmarshal(data, &wire); err != nil {
			return in, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		in = wire.RecipeInput
		in.Steps = wire.Steps
		return in, nil
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return in, nil
}

// resolveIngredients replaces ingredient names in in with their ids. References
// that already look like ids are kept.
func resolveIngredients(ctx context.Context, c *client.Client, in *models.RecipeInput) error {
	var names []string
	for _, ref := range in.Ingredients {
		if ref = strings.TrimSpace(ref); ref != "" && !models.IsObjectID(ref) {
			names = append(names, ref)
		}
	}
	if len(names) == 0 {
		return nil
	}
	list := catalog.NewIngredients(c)
	if err := list.Refresh(ctx); err != nil {
		return err
	}
	ids, err := list.IDs(in.Ingredients)
	if err != nil {
		return err
	}
	in.Ingredients = ids
	return nil
}
