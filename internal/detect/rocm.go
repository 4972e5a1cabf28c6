package detect

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/KunlinY/darts/pkg/device"
)

const (
	rocmSmi            = "rocm-smi"
	showProductNameArg = "--showproductname"
)

// rocmCard is one `cardN` entry of `rocm-smi --json`.
type rocmCard struct {
	Index  int    `json:"-"`
	UUID   string `json:"Unique ID"`
	Vendor string `json:"Card vendor"`
	SKU    string `json:"Card SKU"`
	Model  string `json:"Card model"`
	PCIBus string `json:"PCI Bus"`
}

// parseRocmSmi decodes the cards of a `rocm-smi --json` report that visible lists by index,
// ordered by index. Entries other than cards, such as "system", are ignored.
func parseRocmSmi(report []byte, visible []string) ([]rocmCard, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(report, &entries); err != nil {
		return nil, errors.Wrap(err, "unexpected rocm-smi output")
	}

	cards := []rocmCard{}
	for key, raw := range entries {
		suffix := strings.TrimPrefix(key, "card")
		if suffix == key {
			continue
		}
		index, err := strconv.Atoi(suffix)
		if err != nil {
			return nil, errors.Wrapf(err, "unexpected rocm-smi output: card %q", key)
		}
		if !isVisible(visible, suffix) {
			log.Tracef("skipping card %d, not visible", index)
			continue
		}

		card := rocmCard{Index: index}
		if err := json.Unmarshal(raw, &card); err != nil {
			return nil, errors.Wrapf(err, "unexpected rocm-smi output: card %q", key)
		}
		cards = append(cards, card)
	}

	sort.Slice(cards, func(i, j int) bool { return cards[i].Index < cards[j].Index })
	return cards, nil
}

// detectRocmGPUs returns the AMD GPUs visible to this process.
func detectRocmGPUs(visibleGPUs string) ([]device.Device, error) {
	args := []string{"--showuniqueid", showProductNameArg, "--showbus", "--json"}
	if visibleGPUs != "" {
		args = append(append(args, "-d"), strings.Split(visibleGPUs, ",")...)
	}

	out, err := runCommand(rocmSmi, args...)
	if err != nil && !notInstalled(err) {
		// Cards without a product name make --showproductname fail.
		log.WithError(err).Warn("rocm-smi failed, retrying without product names")
		args = removeArg(args, showProductNameArg)
		out, err = runCommand(rocmSmi, args...)
	}
	switch {
	case notInstalled(err):
		return nil, nil
	case err != nil:
		log.WithError(err).WithField("output", string(out)).Warn("rocm-smi failed")
		return nil, nil
	}

	cards, err := parseRocmSmi(out, visibleDevices(rocrVisibleDevices))
	if err != nil {
		log.WithError(err).WithField("output", string(out)).Warn("ignoring rocm-smi report")
		return nil, nil
	}

	devices := make([]device.Device, 0, len(cards))
	for _, card := range cards {
		devices = append(devices, device.Device{
			ID:    device.ID(card.Index),
			Brand: card.Vendor,
			UUID:  card.UUID,
			Type:  device.ROCM,
		})
	}
	return devices, nil
}

func removeArg(args []string, arg string) []string {
	kept := make([]string, 0, len(args))
	for _, a := range args {
		if a != arg {
			kept = append(kept, a)
		}
	}
	return kept
}
