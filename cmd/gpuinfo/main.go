// Command gpuinfo prints every physical device with its capability report
// and score as JSON, without creating a window or a logical device.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/bulletblaster/config"
	"github.com/vkngwrapper/bulletblaster/gpuselect"
	"github.com/vkngwrapper/bulletblaster/logging"
	"github.com/vkngwrapper/bulletblaster/vkgfx"
)

type deviceInfo struct {
	Index    int                         `json:"index"`
	Report   *gpuselect.CapabilityReport `json:"report"`
	Problems []string                    `json:"problems,omitempty"`
	Score    *uint64                     `json:"score,omitempty"`
	Selected bool                        `json:"selected"`
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath, os.Stdout); err != nil {
		log.Fatalf("%+v\n", err)
	}
}

func run(configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initializing sdl")
	}
	defer sdl.Quit()
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return errors.Wrap(err, "loading vulkan library")
	}
	defer sdl.VulkanUnloadLibrary()

	instance, err := vkgfx.NewInstance(sdl.VulkanGetVkGetInstanceProcAddr(), nil, vkgfx.Options{
		ApplicationName: cfg.Application.Name,
		Log:             logger,
	})
	if err != nil {
		return err
	}
	defer instance.Destroy()

	candidates, err := instance.Candidates()
	if err != nil {
		return err
	}

	selector := &gpuselect.Selector{
		Prober: gpuselect.Prober{Log: logger},
		Score:  cfg.Graphics.ScoreFunc(),
		Log:    logger,
	}
	return writeReport(out, selector.Evaluate(candidates, nil, cfg.Graphics.Requirements()))
}

func writeReport(out io.Writer, evaluations []gpuselect.Evaluation) error {
	best := gpuselect.Best(evaluations)

	infos := make([]deviceInfo, len(evaluations))
	for i, e := range evaluations {
		infos[i] = deviceInfo{
			Index:    e.Index,
			Report:   e.Report,
			Problems: e.Problems,
			Selected: i == best,
		}
		if e.Valid() {
			score := e.Score
			infos[i].Score = &score
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(infos), "writing device report")
}
