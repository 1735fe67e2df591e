package cmd

import (
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/soiltwin/soiltwin-cli/internal/application"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

func newEventCmd(app *app) *cobra.Command {
	var amount float64
	var data map[string]string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "event <rain|irrigation|fertilizer|harvest|amendment|preset>",
		Short: "Inject a simulation event",
		Long:  "event sends a field event to the simulation. Presets (rain25, irri, urea, dap, harv) carry the same payloads as the dashboard quick actions.",
		Args:  cobra.ExactArgs(1),
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			req, err := buildEventRequest(args[0], amount, data)
			if err != nil {
				return err
			}

			log := application.NewNotificationLog()
			defer log.Close()
			dashboard := application.NewDashboard(app.client, log, application.DashboardOptions{Logger: app.logger})
			defer dashboard.Close()

			ack, submitErr := dashboard.SubmitEvent(cmd.Context(), req)
			if err := writeNotifications(cmd.OutOrStdout(), log.Entries()); err != nil {
				return err
			}
			if submitErr != nil {
				return submitErr
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ack)
			}
			if state, ok := ack.OptimisticState(); ok {
				if score, ok := state.HealthScore(); ok {
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "projected health score: %d/100\n", score)
				}
			}
			return err
		}),
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Event amount (mm of rain, kg/ha of fertilizer)")
	cmd.Flags().StringToStringVar(&data, "data", nil, "Extra event data as key=value pairs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render the backend acknowledgement as JSON")

	return cmd
}

func buildEventRequest(name string, amount float64, data map[string]string) (domain.EventRequest, error) {
	var req domain.EventRequest
	if preset, ok := findPreset(name); ok {
		req = preset
	} else {
		eventType, err := domain.ParseEventType(name)
		if err != nil {
			return domain.EventRequest{}, err
		}
		req = domain.EventRequest{Type: eventType}
	}

	if amount == 0 && len(data) == 0 {
		return req, nil
	}

	merged := make(map[string]any, len(req.Data)+len(data)+1)
	maps.Copy(merged, req.Data)
	for key, value := range data {
		if number, err := cast.ToFloat64E(value); err == nil {
			merged[key] = number
			continue
		}
		merged[key] = value
	}
	if amount != 0 {
		req.Amount = amount
		merged["amount"] = amount
	}
	req.Data = merged

	return req, nil
}

func findPreset(name string) (domain.EventRequest, bool) {
	for _, preset := range domain.EventPresets {
		if strings.EqualFold(preset.Label, name) {
			return preset, true
		}
	}
	return domain.EventRequest{}, false
}

func writeNotifications(w io.Writer, entries []domain.Notification) error {
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", entry.Stamp, entry.Message); err != nil {
			return err
		}
	}
	return nil
}
