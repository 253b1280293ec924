package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// AddCustomer prompts for a customer record and stores it.
func (a *App) AddCustomer(ctx context.Context) error {
	var f CustomerForm
	var err error
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Name", &f.Name},
		{"Email", &f.Email},
		{"Phone", &f.Phone},
		{"Address", &f.Address},
		{"Package id (see 'packages')", &f.PackageID},
		{"Sector id (see 'sectors')", &f.SectorID},
	}
	for _, p := range prompts {
		if *p.dst, err = a.text(p.label); err != nil {
			return err
		}
	}

	in, err := f.Input()
	if err != nil {
		a.println(errorMessage(err))
		return nil
	}

	c, ok := a.engine.AddCustomer(ctx, in)
	if !ok {
		a.println("Failed to add customer: an error occurred while adding the customer.")
		return nil
	}
	a.printf("Customer added (id %d).\n", c.ID)
	return nil
}

// Customers lists stored records. With html set, each record is printed as
// the table row a browser would receive, which is where stored markup from
// vulnerable mode shows up.
func (a *App) Customers(ctx context.Context, html bool) error {
	list := a.engine.ListCustomers(ctx)
	if len(list) == 0 {
		a.println("No customers yet.")
		return nil
	}

	if html {
		for _, c := range list {
			a.println(a.engine.RenderCustomerHTML(c))
		}
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tADDRESS\tPACKAGE\tSECTOR")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Email, c.Phone, c.Address,
			a.engine.PackageName(c.PackageID), a.engine.SectorName(c.SectorID))
	}
	return tw.Flush()
}

// Packages prints the package catalogue.
func (a *App) Packages(ctx context.Context) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPEED\tPRICE\tDESCRIPTION")
	for _, p := range a.engine.ListPackages() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%.2f\t%s\n", p.ID, p.Name, p.Speed, p.Price, p.Description)
	}
	return tw.Flush()
}

// Sectors prints the sector catalogue.
func (a *App) Sectors(ctx context.Context) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, s := range a.engine.ListSectors() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Name, s.Description)
	}
	return tw.Flush()
}
