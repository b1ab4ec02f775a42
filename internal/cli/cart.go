package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/voltmart/voltmart/internal/store"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the cart",
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add one unit of a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty [product-id] [quantity]",
	Short: "Set a product's quantity (0 removes it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartQty,
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		a.Cart.Clear()
		fmt.Println("Cart cleared.")
		return nil
	},
}

func init() {
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartClearCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	items := a.Cart.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}

	for _, it := range items {
		fmt.Printf("%4d  %-36s %3d x %10.2f = %10.2f\n",
			it.ProductID, it.Name, it.Quantity, it.Price, it.LineTotal())
	}
	fmt.Printf("\nItems:    %10.2f\n", a.Cart.Total())
	fmt.Printf("Shipping: %10.2f\n", a.Cart.Shipping())
	fmt.Printf("Total:    %10.2f\n", a.Cart.GrandTotal())
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	productID, err := parseID(args[0])
	if err != nil {
		return err
	}

	product, err := a.FindProduct(context.Background(), productID)
	if err != nil {
		return err
	}

	switch a.Cart.Add(*product) {
	case store.Added:
		fmt.Printf("Added %q to cart\n", product.Name)
	case store.Incremented:
		fmt.Printf("One more %q in cart\n", product.Name)
	case store.Capped:
		return fmt.Errorf("only %d of %q in stock", product.Stock, product.Name)
	}
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	a.Cart.Remove(productID)
	fmt.Println("Removed.")
	return nil
}

func runCartQty(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	productID, err := parseID(args[0])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	switch a.Cart.UpdateQuantity(productID, qty) {
	case store.Removed:
		fmt.Println("Removed from cart.")
	case store.Incremented:
		fmt.Printf("Quantity set to %d\n", qty)
	case store.Capped:
		return fmt.Errorf("not enough stock for quantity %d", qty)
	}
	return nil
}

var checkoutAddress int64

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if a.Cart.Count() == 0 {
			return fmt.Errorf("cart is empty")
		}

		fmt.Printf("Items:    %10.2f\n", a.Cart.Total())
		fmt.Printf("Shipping: %10.2f\n", a.Cart.Shipping())
		fmt.Printf("Total:    %10.2f\n\n", a.Cart.GrandTotal())

		order, err := a.Checkout(context.Background(), checkoutAddress)
		if err != nil {
			return fmt.Errorf("checkout failed: %w", err)
		}

		fmt.Printf("Order #%d placed. Thank you!\n", order.OrderID)
		return nil
	},
}

func init() {
	checkoutCmd.Flags().Int64Var(&checkoutAddress, "address", 0, "Delivery address id (see 'voltmart address')")
}
