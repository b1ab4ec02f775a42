package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/voltmart/voltmart/internal/api"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		categories, err := a.Categories.Get(context.Background(), "categories")
		if err != nil {
			return fmt.Errorf("failed to load categories: %w", err)
		}

		for _, c := range categories {
			fmt.Printf("%4d  %s\n", c.CategoryID, c.Name)
		}
		return nil
	},
}

var (
	productsCategory int64
	productsSearch   string
	productsPage     int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	Long: `List products, optionally filtered.

Examples:
  voltmart products
  voltmart products --category 2
  voltmart products --search "tower 1500" --page 2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		page, err := a.FetchProducts(context.Background(), api.ProductQuery{
			CategoryID: productsCategory,
			Search:     productsSearch,
			Page:       productsPage,
		})
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}

		if len(page.Products) == 0 {
			fmt.Println("No products found.")
			return nil
		}

		for _, p := range page.Products {
			stock := fmt.Sprintf("%d in stock", p.Stock)
			if !p.InStock() {
				stock = "out of stock"
			} else if p.LowStock() {
				stock = fmt.Sprintf("only %d left", p.Stock)
			}
			fmt.Printf("%4d  %-36s %10.2f  %s\n", p.ProductID, p.Name, p.Price, stock)
		}
		if page.HasMore() {
			fmt.Printf("\nMore results: --page %d\n", page.Page+1)
		}
		return nil
	},
}

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List bookable services",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		services, err := a.Services.Get(context.Background(), "services")
		if err != nil {
			return fmt.Errorf("failed to load services: %w", err)
		}

		for _, s := range services {
			line := fmt.Sprintf("%4d  %-32s %10.2f", s.ServiceID, s.ServiceName, s.Price)
			if s.Duration != "" {
				line += "  " + s.Duration
			}
			fmt.Println(line)
		}
		return nil
	},
}

var bookCmd = &cobra.Command{
	Use:   "book [service-id]",
	Short: "Book a service visit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.Session.IsAuthenticated() {
			return fmt.Errorf("sign in first: voltmart auth login")
		}

		serviceID, err := parseID(args[0])
		if err != nil {
			return err
		}

		at, _ := cmd.Flags().GetString("at")
		notes, _ := cmd.Flags().GetString("notes")
		booking, err := a.Client.BookService(context.Background(), serviceID, at, notes)
		if err != nil {
			return fmt.Errorf("failed to book service: %w", err)
		}

		fmt.Printf("Booked service %d (booking #%d)\n", serviceID, booking.BookingID)
		return nil
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List published guides and manuals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		resources, err := a.Client.Resources(context.Background())
		if err != nil {
			return fmt.Errorf("failed to load resources: %w", err)
		}

		for _, r := range resources {
			fmt.Printf("%-40s %s\n", r.Title, r.URL)
		}
		return nil
	},
}

func parseID(s string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	productsCmd.Flags().Int64VarP(&productsCategory, "category", "c", 0, "Filter by category id")
	productsCmd.Flags().StringVarP(&productsSearch, "search", "s", "", "Search text")
	productsCmd.Flags().IntVarP(&productsPage, "page", "p", 1, "Page number")

	bookCmd.Flags().String("at", "", "Scheduled time (RFC3339)")
	bookCmd.Flags().String("notes", "", "Notes for the technician")
	servicesCmd.AddCommand(bookCmd)
}
