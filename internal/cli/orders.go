package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/voltmart/voltmart/internal/model"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show order history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			return fmt.Errorf("sign in first: voltmart auth login")
		}

		orders, err := a.Client.Orders(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		if len(orders) == 0 {
			fmt.Println("No orders yet.")
			return nil
		}

		for _, o := range orders {
			fmt.Printf("#%-6d %s  %d item(s)  total %.2f  %s\n",
				o.OrderID, o.CreatedAt.Format("2006-01-02"), len(o.Items), o.GrandTotal, o.Status)
		}
		return nil
	},
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Manage delivery addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			return fmt.Errorf("sign in first: voltmart auth login")
		}

		addresses, err := a.Client.Addresses(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load addresses: %w", err)
		}
		if len(addresses) == 0 {
			fmt.Println("No saved addresses. Add one with 'voltmart address add'.")
			return nil
		}

		for _, addr := range addresses {
			label := addr.Label
			if label == "" {
				label = "-"
			}
			fmt.Printf("%4d  %-10s %s, %s %s\n", addr.AddressID, label, addr.Street, addr.City, addr.Zip)
		}
		return nil
	},
}

var (
	addrLabel  string
	addrStreet string
	addrCity   string
	addrRegion string
	addrZip    string
	addrPhone  string
)

var addressAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new delivery address",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			return fmt.Errorf("sign in first: voltmart auth login")
		}
		if addrStreet == "" || addrCity == "" {
			return fmt.Errorf("--street and --city are required")
		}

		created, err := a.Client.CreateAddress(context.Background(), model.Address{
			Label:  addrLabel,
			Street: addrStreet,
			City:   addrCity,
			Region: addrRegion,
			Zip:    addrZip,
			Phone:  addrPhone,
		})
		if err != nil {
			return fmt.Errorf("failed to save address: %w", err)
		}
		fmt.Printf("Address saved (#%d)\n", created.AddressID)
		return nil
	},
}

var addressDeleteCmd = &cobra.Command{
	Use:   "delete [address-id]",
	Short: "Delete a saved address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.Client.DeleteAddress(context.Background(), id); err != nil {
			return fmt.Errorf("failed to delete address: %w", err)
		}
		fmt.Println("Address deleted.")
		return nil
	},
}

var (
	feedbackProduct int64
	feedbackRating  int
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [message]",
	Short: "Send feedback, optionally rating a product",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			return fmt.Errorf("sign in first: voltmart auth login")
		}

		message := args[0]
		for _, arg := range args[1:] {
			message += " " + arg
		}
		if feedbackRating != 0 && (feedbackRating < 1 || feedbackRating > 5) {
			return fmt.Errorf("rating must be 1-5, got %s", strconv.Itoa(feedbackRating))
		}

		err = a.Client.SubmitFeedback(context.Background(), model.Feedback{
			ProductID: feedbackProduct,
			Rating:    feedbackRating,
			Message:   message,
		})
		if err != nil {
			return fmt.Errorf("failed to send feedback: %w", err)
		}
		fmt.Println("Thanks for the feedback!")
		return nil
	},
}

func init() {
	addressAddCmd.Flags().StringVar(&addrLabel, "label", "", "Label (home, office...)")
	addressAddCmd.Flags().StringVar(&addrStreet, "street", "", "Street address")
	addressAddCmd.Flags().StringVar(&addrCity, "city", "", "City")
	addressAddCmd.Flags().StringVar(&addrRegion, "region", "", "Region or state")
	addressAddCmd.Flags().StringVar(&addrZip, "zip", "", "Postal code")
	addressAddCmd.Flags().StringVar(&addrPhone, "phone", "", "Contact phone")
	addressCmd.AddCommand(addressAddCmd)
	addressCmd.AddCommand(addressDeleteCmd)

	feedbackCmd.Flags().Int64Var(&feedbackProduct, "product", 0, "Product id the feedback is about")
	feedbackCmd.Flags().IntVar(&feedbackRating, "rating", 0, "Rating 1-5")
}
