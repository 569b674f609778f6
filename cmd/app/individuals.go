package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/api/individual"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/config"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var individualFlags struct {
	id        string
	nombre    string
	apellido1 string
	apellido2 string
	photo     string
}

var individualsCmd = &cobra.Command{
	Use:     "individuos",
	Aliases: []string{"individuals"},
	Short:   "Manage the individuals registered in the backend",
}

var listIndividualsCmd = &cobra.Command{
	Use:   "listar",
	Short: "List the registered individuals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		individuals, err := newGateway().ListIndividuals(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list individuals: %w", err)
		}

		if len(individuals) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No individuals registered.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNOMBRE\tAPELLIDOS\tCARAS")
		fmt.Fprintln(w, "--\t------\t---------\t-----")
		for _, ind := range individuals {
			surnames := strings.TrimSpace(ind.Apellido1 + " " + ind.Apellido2)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", ind.ID, ind.Nombre, surnames, len(ind.Caras))
		}
		return w.Flush()
	},
}

var createIndividualCmd = &cobra.Command{
	Use:   "crear",
	Short: "Register an individual, optionally with a reference photo",
	Long:  "Register an individual. Without --foto the record is sent as JSON.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := individualForm()
		if err != nil {
			return err
		}

		gw := newGateway()
		var result jsoniter.RawMessage
		if form.File == nil {
			result, err = gw.CreateIndividual(cmd.Context(), form.Individual())
		} else {
			result, err = gw.CreateIndividualWithFace(cmd.Context(), form)
		}
		if err != nil {
			return fmt.Errorf("failed to create individual: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var updateIndividualCmd = &cobra.Command{
	Use:   "modificar",
	Short: "Update an individual, optionally replacing its reference photo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if individualFlags.id == "" {
			return individual.ErrInvalidIndividualID
		}

		form, err := individualForm()
		if err != nil {
			return err
		}

		gw := newGateway()
		var result jsoniter.RawMessage
		if form.File == nil {
			result, err = gw.UpdateIndividual(cmd.Context(), form.Individual())
		} else {
			result, err = gw.UpdateIndividualWithFace(cmd.Context(), form)
		}
		if err != nil {
			return fmt.Errorf("failed to update individual: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var deleteIndividualCmd = &cobra.Command{
	Use:   "borrar <id>",
	Short: "Delete an individual",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := newGateway().DeleteIndividual(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete individual: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Individual %s deleted\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createIndividualCmd, updateIndividualCmd} {
		c.Flags().StringVar(&individualFlags.nombre, "nombre", "", "first name")
		c.Flags().StringVar(&individualFlags.apellido1, "apellido1", "", "first surname")
		c.Flags().StringVar(&individualFlags.apellido2, "apellido2", "", "second surname")
		c.Flags().StringVar(&individualFlags.photo, "foto", "", "reference face photo")
	}
	updateIndividualCmd.Flags().StringVar(&individualFlags.id, "id", "", "individual id")
	_ = createIndividualCmd.MarkFlagRequired("nombre")

	individualsCmd.AddCommand(listIndividualsCmd, createIndividualCmd, updateIndividualCmd, deleteIndividualCmd)
	rootCmd.AddCommand(individualsCmd)
}

// individualForm validates the flags the same way the HTTP form is validated.
func individualForm() (entity.IndividualForm, error) {
	req := individual.IndividualFormRequest{
		ID:        individualFlags.id,
		Nombre:    individualFlags.nombre,
		Apellido1: individualFlags.apellido1,
		Apellido2: individualFlags.apellido2,
	}
	if err := config.NewValidator().Struct(req); err != nil {
		return entity.IndividualForm{}, fmt.Errorf("invalid individual: %w", err)
	}

	var photo *entity.Upload
	if individualFlags.photo != "" {
		var err error
		if photo, err = readUpload(individualFlags.photo); err != nil {
			return entity.IndividualForm{}, err
		}
	}

	return req.ToForm(photo), nil
}
