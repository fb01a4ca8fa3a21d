package glib

import (
	"sync"

	"github.com/chwjbn/vector-hub/glog"
	"github.com/cockroachdb/errors"
	"github.com/kardianos/service"
)

// Serv adapts the process to the service manager. For an interactive run the
// manager only waits for an interrupt or terminate signal and then calls Stop,
// which closes the quit channel the render loop watches.
type Serv struct {
	mSrvName  string
	mSrvTitle string
	mSrvInfo  string

	mService  service.Service
	mQuitChan chan struct{}
	mQuitOnce sync.Once
}

func NewServ(srvName string, srvTitle string, srvInfo string) (*Serv, error) {

	srv := new(Serv)
	srv.mSrvName = srvName
	srv.mSrvTitle = srvTitle
	srv.mSrvInfo = srvInfo

	xErr := srv.init()
	if xErr != nil {
		return nil, xErr
	}

	return srv, xErr

}

func (this *Serv) init() error {

	var xErr error

	this.mQuitChan = make(chan struct{})

	var srvErr error

	this.mService, srvErr = service.New(this, &service.Config{
		Name:        this.mSrvName,
		DisplayName: this.mSrvTitle,
		Description: this.mSrvInfo,
	})

	if srvErr != nil {
		xErr = errors.Wrap(srvErr, "service create")
	}

	return xErr

}

func (this *Serv) Start(s service.Service) error {
	glog.InfoF("Serv.Start Name=[%s] interactive=[%v]", this.mSrvName, service.Interactive())
	return nil
}

func (this *Serv) Stop(s service.Service) error {

	glog.InfoF("Serv.Stop Name=[%s]", this.mSrvName)

	this.RequestQuit()

	return nil
}

// QuitChan is closed once a quit has been requested.
func (this *Serv) QuitChan() <-chan struct{} {
	return this.mQuitChan
}

func (this *Serv) RequestQuit() {
	this.mQuitOnce.Do(func() {
		close(this.mQuitChan)
	})
}

// RunService blocks until the service manager stops the service. Run it on its
// own goroutine; the main thread belongs to the window.
func (this *Serv) RunService() {

	glog.Info("Serv.RunService begin")

	if xErr := this.mService.Run(); xErr != nil {
		glog.ErrorF("Serv.RunService error:[%v]", xErr)
	}

	glog.Info("Serv.RunService end")

}
