package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voltmart/voltmart/internal/store"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favourites",
	RunE:  runFavList,
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle [product-id]",
	Short: "Favourite or unfavourite a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavToggle,
}

func init() {
	favCmd.AddCommand(favToggleCmd)
}

func runFavList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.Session.IsAuthenticated() {
		return fmt.Errorf("sign in first: voltmart auth login")
	}

	if err := a.Favs.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load favourites: %w", err)
	}

	ids := a.Favs.IDs()
	if len(ids) == 0 {
		fmt.Println("No favourites yet.")
		return nil
	}
	for _, id := range ids {
		if p, err := a.FindProduct(context.Background(), id); err == nil {
			fmt.Printf("%4d  %-36s %10.2f\n", p.ProductID, p.Name, p.Price)
		} else {
			fmt.Printf("%4d  (no longer in catalog)\n", id)
		}
	}
	return nil
}

func runFavToggle(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	productID, err := parseID(args[0])
	if err != nil {
		return err
	}

	outcome, err := a.Favs.Toggle(context.Background(), productID)
	if err != nil {
		return err
	}

	switch outcome {
	case store.ToggleAdded:
		fmt.Printf("Product %d favourited\n", productID)
	case store.ToggleRemoved:
		fmt.Printf("Product %d unfavourited\n", productID)
	case store.ToggleReconciled:
		status := "not favourited"
		if a.Favs.IsFavourite(productID) {
			status = "favourited"
		}
		fmt.Printf("Favourites re-synced with the server; product %d is %s\n", productID, status)
	}
	return nil
}
