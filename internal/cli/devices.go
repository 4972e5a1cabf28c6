package cli

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KunlinY/darts/internal/detect"
	"github.com/KunlinY/darts/pkg/check"
)

// NewDevicesCmd returns the command listing the devices a training run would see.
func NewDevicesCmd() *cobra.Command {
	var slotType, visibleGPUs string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "list the devices visible to training",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := check.In(slotType, detect.SlotTypes, "invalid --slot_type"); err != nil {
				return err
			}

			devices, err := detect.Detect(slotType, visibleGPUs)
			if err != nil {
				return errors.Wrap(err, "failed to detect devices")
			}
			log.WithField("count", len(devices)).Debugf("detected %s devices", slotType)

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(devices)
			}
			for i := range devices {
				fmt.Fprintln(out, devices[i].String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&slotType, "slot_type", detect.SlotTypeAuto,
		fmt.Sprintf("type of devices to list (one of %v)", detect.SlotTypes))
	cmd.Flags().StringVar(&visibleGPUs, "visible_gpus", "",
		"comma-separated GPU ids to restrict discovery to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the devices as JSON")

	return cmd
}
