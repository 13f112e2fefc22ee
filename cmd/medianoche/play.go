package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ovalles/medianoche/internal/errors"
	"github.com/ovalles/medianoche/internal/interrogate"
	"github.com/spf13/cobra"
)

var playFlags struct {
	seed    int64
	casePth string
	model   string
	offline bool
	debug   bool
}

func init() {
	playCmd.Flags().Int64Var(&playFlags.seed, "seed", 0, "semilla del caso; 0 usa el reloj")
	playCmd.Flags().StringVar(&playFlags.casePth, "case", "", "ruta a un caso YAML alternativo")
	playCmd.Flags().StringVar(&playFlags.model, "model", "", "modelo de OpenAI a usar")
	playCmd.Flags().BoolVar(&playFlags.offline, "offline", false, "jugar sin llamar a la API")
	playCmd.Flags().BoolVar(&playFlags.debug, "debug", false, "mostrar decisiones del motor")
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Jugar una partida interactiva",
	Long:  "Interroga a los sospechosos por turnos hasta acusar al culpable.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		generator := pickGenerator(playFlags.offline, playFlags.model)
		s, err := newSession(playFlags.casePth, playFlags.seed, generator, playFlags.debug)
		if err != nil {
			return err
		}
		return runPlay(cmd, s)
	},
}

const playHelp = `Comandos:
  hablar <nombre>    elegir a quién interrogar
  sospechosos        listar la troupe y sus preguntas restantes
  pistas             listar las pistas reveladas
  siguiente          avanzar a la siguiente fase
  acusar <nombre>    cerrar el caso señalando al culpable
  salir              abandonar la partida
Cualquier otra cosa se pregunta al sospechoso elegido.`

func runPlay(cmd *cobra.Command, s *session) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(s.caseFile.Title))
	fmt.Fprintln(out, s.caseFile.Summary)
	fmt.Fprintf(out, "Víctima: %s\n", s.caseFile.Victim.Name)
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("semilla %d", s.seed)))
	fmt.Fprintln(out)
	printSuspects(cmd, s)
	fmt.Fprintln(out, mutedStyle.Render(playHelp))

	scanner := bufio.NewScanner(os.Stdin)
	target := ""
	for {
		if target != "" {
			fmt.Fprintf(out, "\n%s> ", suspectStyle.Render(target))
		} else {
			fmt.Fprint(out, "\n> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		word, rest := splitCommand(line)

		switch word {
		case "salir":
			return nil
		case "ayuda":
			fmt.Fprintln(out, mutedStyle.Render(playHelp))
		case "sospechosos":
			printSuspects(cmd, s)
		case "pistas":
			printEvidence(cmd, s)
		case "siguiente":
			revealed, ok := s.state.Advance()
			if !ok {
				fmt.Fprintln(out, errorStyle.Render("Ya estás en la fase final."))
				continue
			}
			fmt.Fprintln(out, phaseStyle.Render("Fase: "+s.state.Phase.String()))
			if revealed != "" {
				fmt.Fprintln(out, clueStyle.Render("Nueva pista: "+revealed))
			}
		case "hablar":
			name, found := s.resolver.Canonicalize(rest)
			if !found {
				fmt.Fprintln(out, errorStyle.Render("No conozco a ese sospechoso."))
				continue
			}
			target = name
			fmt.Fprintf(out, "Ahora interrogas a %s.\n", suspectStyle.Render(name))
		case "acusar":
			if rest == "" {
				fmt.Fprintln(out, errorStyle.Render("¿A quién acusas?"))
				continue
			}
			accused := rest
			if canonical, found := s.resolver.Canonicalize(rest); found {
				accused = canonical
			}
			_, narration := s.narrator.Resolve(s.state, accused)
			fmt.Fprintln(out)
			fmt.Fprintln(out, titleStyle.Render("EL CIERRE DEL CASO"))
			fmt.Fprintln(out, narration)
			return nil
		default:
			if target == "" {
				fmt.Fprintln(out, errorStyle.Render("Elige primero a quién hablar: hablar <nombre>."))
				continue
			}
			askAndPrint(cmd, s, target, line)
		}
	}
}

func askAndPrint(cmd *cobra.Command, s *session, target, question string) {
	out := cmd.OutOrStdout()
	turn, err := s.orchestrator.Ask(cmd.Context(), target, question)
	if err != nil {
		switch {
		case errors.Is(err, interrogate.ErrUnknownSuspect):
			fmt.Fprintln(out, errorStyle.Render("Nadie reconoce ese nombre."))
		case errors.Is(err, interrogate.ErrNoQuestionsLeft):
			fmt.Fprintln(out, errorStyle.Render("Se cansó de tus preguntas por esta fase. Prueba con otro o avanza."))
		default:
			fmt.Fprintln(out, errorStyle.Render("Algo salió mal: "+err.Error()))
		}
		return
	}

	fmt.Fprintf(out, "%s: %s\n", suspectStyle.Render(turn.Target), spokenStyle.Render(turn.Spoken))
	if turn.Clue != nil {
		fmt.Fprintln(out, clueStyle.Render(
			fmt.Sprintf("Pista encontrada: %s (aportada por %s)", turn.Clue.Description, turn.Clue.Source)))
	}
	if playFlags.debug {
		fmt.Fprintln(out, mutedStyle.Render(
			fmt.Sprintf("[%s presión=%.2f evasiva=%t]", turn.Decision, turn.Pressure, turn.Meta.Evasive)))
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("Preguntas restantes: %d", turn.QuestionsLeft)))
}

func printSuspects(cmd *cobra.Command, s *session) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, phaseStyle.Render("Fase: "+s.state.Phase.String()))
	for _, suspect := range s.caseFile.Suspects {
		fmt.Fprintf(out, "  %s, %s %s\n",
			suspectStyle.Render(suspect.Name), suspect.Role,
			mutedStyle.Render(fmt.Sprintf("(%d preguntas)", s.state.QuestionsLeft(suspect.Name))))
	}
}

func printEvidence(cmd *cobra.Command, s *session) {
	out := cmd.OutOrStdout()
	items := s.state.Evidence()
	if len(items) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("Todavía no hay pistas."))
		return
	}
	for _, it := range items {
		fmt.Fprintf(out, "  %s %s\n", clueStyle.Render(it.Description),
			mutedStyle.Render("("+it.Source+")"))
	}
}

func splitCommand(line string) (word, rest string) {
	parts := strings.SplitN(line, " ", 2)
	word = strings.ToLower(parts[0])
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return word, rest
}
