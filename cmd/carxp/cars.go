package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/model"
)

func carsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cars",
		Short: "Manage cars",
		Long:  `List and add the cars that expenses and earnings are recorded against.`,
	}

	cmd.AddCommand(listCarsCmd())
	cmd.AddCommand(addCarCmd())

	return cmd
}

func listCarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cars",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cars, err := store.GetCars(ctx)
			if err != nil {
				return fmt.Errorf("failed to get cars: %w", err)
			}

			if len(cars) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No cars found. Use 'carxp cars add' to create one."))
				return nil
			}

			w := newTable(out, "ID", "Model", "Plate", "Year")
			for _, car := range cars {
				year := ""
				if car.Year > 0 {
					year = strconv.Itoa(car.Year)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", car.ID, car.Model, labelOr(car.Plate, "-"), labelOr(year, "-"))
			}
			return w.Flush()
		},
	}
}

func addCarCmd() *cobra.Command {
	var (
		plate string
		year  int
	)

	cmd := &cobra.Command{
		Use:   "add <model>",
		Short: "Add a car",
		Args:  cobra.ExactArgs(1),
		Example: `  carxp cars add "VW Gol" --plate ABC1D23 --year 2019`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			car := model.Car{Model: args[0], Plate: plate, Year: year}
			if err := car.Validate(); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			id, err := store.InsertCar(ctx, car.Model, car.Plate, car.Year)
			if err != nil {
				return fmt.Errorf("failed to add car: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added car %q (id %d)", car.Model, id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&plate, "plate", "", "licence plate")
	cmd.Flags().IntVar(&year, "year", 0, "model year")

	return cmd
}
