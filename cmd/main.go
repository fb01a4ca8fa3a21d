package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/chwjbn/vector-hub/glib"
	"github.com/chwjbn/vector-hub/glog"
	"github.com/chwjbn/vector-hub/media/gconfig"
)

func init() {
	// GLFW and the GL context live on the main OS thread
	runtime.LockOSThread()
}

func main() {

	configPath := flag.String("config", "", "config file, default data/config.yaml next to the executable")
	overlayPath := flag.String("overlay", "", "overlay image file, overrides overlay_path")
	capturePath := flag.String("capture", "", "render one frame with the software device into this PNG file and exit")
	flag.Parse()

	glog.Info("app begin")
	glog.Info(glib.OsBanner())

	os.Exit(run(*configPath, *overlayPath, *capturePath))
}

func run(configPath string, overlayPath string, capturePath string) int {

	defer glog.Sync()

	meta, xErr := gconfig.GetRenderMeta(configPath)
	if xErr != nil {
		glog.ErrorF("load config error:[%v]", xErr)
		return 1
	}

	if len(overlayPath) > 0 {
		meta.OverlayPath = overlayPath
	}

	scene, xErr := buildScene(meta)
	if xErr != nil {
		glog.ErrorF("build scene error:[%v]", xErr)
		return 1
	}

	if len(capturePath) > 0 {
		xErr = runCapture(meta, scene, capturePath)
	} else {
		xErr = runWindow(meta, scene)
	}

	if xErr != nil {
		glog.ErrorF("%+v", xErr)
		return 1
	}

	glog.Info("app end")

	return 0
}
