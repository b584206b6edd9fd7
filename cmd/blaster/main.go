package main

import (
	"context"
	"flag"
	"log"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/bulletblaster/config"
	"github.com/vkngwrapper/bulletblaster/logging"
	"github.com/vkngwrapper/bulletblaster/netlink"
	"github.com/vkngwrapper/bulletblaster/vkgfx"
)

type Client struct {
	cfg *config.Config
	log *logrus.Logger

	window   *sdl.Window
	graphics *vkgfx.Context
	net      *netlink.Networker
}

func (app *Client) Run() error {
	err := app.initWindow()
	if err != nil {
		return err
	}
	defer app.cleanup()

	err = app.initGraphics()
	if err != nil {
		return err
	}

	app.net = netlink.NewNetworker(app.cfg.Network.Address())
	err = app.net.Connect(context.Background())
	if err != nil {
		return err
	}
	app.log.WithField("server", app.net.Address).Info("Connected")

	return app.mainLoop()
}

func (app *Client) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if app.cfg.Window.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}
	window, err := sdl.CreateWindow(app.cfg.Window.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(app.cfg.Window.Width), int32(app.cfg.Window.Height), flags)
	if err != nil {
		return err
	}
	app.window = window

	return nil
}

func (app *Client) initGraphics() error {
	graphics, err := vkgfx.NewContext(app.window, vkgfx.Options{
		ApplicationName:     app.cfg.Application.Name,
		Validation:          app.cfg.Graphics.Validation,
		RequirePresentation: app.cfg.Graphics.RequirePresentation,
		Requirements:        app.cfg.Graphics.Requirements(),
		Score:               app.cfg.Graphics.ScoreFunc(),
		Log:                 app.log,
	})
	if err != nil {
		return err
	}

	app.graphics = graphics
	return nil
}

func (app *Client) mainLoop() error {
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
			}
		}
		sdl.Delay(16)
	}
}

func (app *Client) cleanup() {
	if app.net != nil {
		app.net.Close()
	}

	if app.graphics != nil {
		app.graphics.Destroy()
	}

	if app.window != nil {
		app.window.Destroy()
	}
	sdl.Quit()
}

func main() {
	runtime.LockOSThread()

	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	app := &Client{cfg: cfg, log: logger}
	err = app.Run()
	if err != nil {
		logger.Fatalf("Failed to run app: %+v", err)
	}
}
