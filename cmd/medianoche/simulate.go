package main

import (
	"fmt"

	"github.com/ovalles/medianoche/internal/ai"
	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/interrogate"
	"github.com/spf13/cobra"
)

var simulateFlags struct {
	seed    int64
	casePth string
	accuse  string
}

func init() {
	simulateCmd.Flags().Int64Var(&simulateFlags.seed, "seed", 1, "semilla del caso")
	simulateCmd.Flags().StringVar(&simulateFlags.casePth, "case", "", "ruta a un caso YAML alternativo")
	simulateCmd.Flags().StringVar(&simulateFlags.accuse, "accuse", "", "a quién acusar al final; vacío acusa al primero")
}

// phaseScripts holds three questions per phase, one round per suspect.
var phaseScripts = [][]string{
	{
		"¿Dónde estabas cuando murió Ñopin?",
		"¿Qué pruebas conoces sobre el crimen?",
		"¿Viste algún objeto extraño esa noche?",
	},
	{
		"¿Qué lugares frecuentaba la víctima?",
		"¿Quién tenía motivos para matarlo?",
		"¿Cómo era tu relación con Ñopin?",
	},
	{
		"¿Qué rumores corren por el circo?",
		"¿Alguien puede confirmar tu coartada?",
		"¿Qué más puedes contarme del caso?",
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Correr una partida guionada sin jugador",
	Long:  "Recorre las tres fases con preguntas fijas y cierra con una acusación. Útil para reproducir una partida con una semilla.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Always offline: the point is a reproducible transcript.
		s, err := newSession(simulateFlags.casePth, simulateFlags.seed, ai.NewLocalGenerator(), false)
		if err != nil {
			return err
		}
		return runSimulation(cmd, s)
	},
}

func runSimulation(cmd *cobra.Command, s *session) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(s.caseFile.Title))
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("semilla %d", s.seed)))

	for phase, questions := range phaseScripts {
		fmt.Fprintln(out)
		fmt.Fprintln(out, phaseStyle.Render("Fase: "+s.state.Phase.String()))
		for _, name := range s.state.Roster() {
			for _, question := range questions {
				turn, err := s.orchestrator.Ask(cmd.Context(), name, question)
				if err != nil {
					if errors.Is(err, interrogate.ErrNoQuestionsLeft) {
						break
					}
					return errors.Wrap(err, "simulated turn")
				}
				fmt.Fprintf(out, "> %s\n%s: %s\n", mutedStyle.Render(question),
					suspectStyle.Render(turn.Target), turn.Spoken)
				if turn.Clue != nil {
					fmt.Fprintln(out, clueStyle.Render(
						fmt.Sprintf("Pista encontrada: %s (aportada por %s)", turn.Clue.Description, turn.Clue.Source)))
				}
			}
		}
		if phase < len(phaseScripts)-1 {
			if revealed, ok := s.state.Advance(); ok && revealed != "" {
				fmt.Fprintln(out, clueStyle.Render("Nueva pista: "+revealed))
			}
		}
	}

	accused := simulateFlags.accuse
	if accused == "" {
		accused = s.state.Roster()[0]
	}
	if canonical, found := s.resolver.Canonicalize(accused); found {
		accused = canonical
	}

	outcome, narration := s.narrator.Resolve(s.state, accused)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Acusación:"), accused)
	fmt.Fprintln(out, mutedStyle.Render(outcome.String()))
	fmt.Fprintln(out, narration)
	return nil
}
