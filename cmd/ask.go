package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/model"
	"github.com/theirongolddev/stayask/internal/session"

	"github.com/spf13/cobra"
)

var flagAskJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&flagAskJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON shape of a single answered question.
type askOutput struct {
	Question       string           `json:"question"`
	Answer         string           `json:"answer"`
	ResponseTimeMs int64            `json:"response_time_ms"`
	QuestionNumber int              `json:"question_number"`
	Model          string           `json:"model,omitempty"`
	Cost           *model.CostEntry `json:"cost"`
	Error          string           `json:"error,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("question is empty")
	}

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	var ind session.Indicator
	if !flagAskJSON {
		ind = cli.NewSpinner(os.Stderr)
	}
	sess := rt.newSession(ind)

	res, err := sess.Answer(cmd.Context(), question)
	if err != nil {
		return err
	}

	if flagAskJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(askOutput{
			Question:       res.Question,
			Answer:         res.Answer,
			ResponseTimeMs: res.ResponseTimeMs,
			QuestionNumber: res.QuestionNumber,
			Model:          res.Model,
			Cost:           res.Cost,
			Error:          res.Error(),
		}); err != nil {
			return err
		}
	} else {
		fmt.Println()
		fmt.Print(cli.RenderResult(res))
	}

	return askError(res)
}

// errAnswerFailed marks a failure that was already rendered with the result;
// it only sets the exit status.
var errAnswerFailed = errors.New("question was not answered")

func askError(res model.Result) error {
	if !res.Failed() {
		return nil
	}
	return fmt.Errorf("%w: %s", errAnswerFailed, res.Failure.Kind)
}
