package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"

	log "github.com/sirupsen/logrus"

	"github.com/shoaibsidiki/deltaT-calculator/config"
	"github.com/shoaibsidiki/deltaT-calculator/server"
)

func setupLog(c config.LogConfig) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		log.WithError(err).Warn("bad log level, keeping ", log.GetLevel())
	} else {
		log.SetLevel(level)
	}
	if c.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func main() {
	confPath := flag.String("conf", config.DefaultPath, "ini configuration file")
	addr := flag.String("addr", "", "listen address, overrides [server] addr")
	watch := flag.Bool("watch", true, "reload the configuration file when it changes")
	flag.Parse()

	cfg, err := config.Load(*confPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.WithField("path", *confPath).Warn("no config file, using defaults")
		cfg = config.Default()
		*watch = false
	case err != nil:
		log.WithError(err).Fatal("load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	setupLog(cfg.Log)

	s := server.NewServer(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *watch {
		go func() {
			err := config.Watch(ctx, *confPath, func(c config.Config) {
				setupLog(c.Log)
				s.SetConfig(c)
			})
			if err != nil {
				log.WithError(err).Warn("config watch stopped")
			}
		}()
	}

	if err := s.Serve(); err != nil {
		log.WithError(err).Fatal("serve")
	}
}
