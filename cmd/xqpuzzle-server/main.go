package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"xqpuzzle/internal/puzzle"
	httpserver "xqpuzzle/internal/server/http"
	"xqpuzzle/internal/store"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 不阻塞，服务器环境可能没有图形界面
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	webDir := flag.String("web", "./web", "directory with the built front-end")
	dbDir := flag.String("db", "", "badger data directory (empty = in-memory)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	open := flag.Bool("open", false, "open the default browser after start")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("bad -log-level: %v", err)
	}
	logrus.SetLevel(lvl)

	st, err := store.Open(store.Options{Dir: *dbDir})
	if err != nil {
		logrus.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logrus.Errorf("close store: %v", err)
		}
	}()
	if *dbDir == "" {
		logrus.Warn("no -db given, puzzles and scores are kept in memory only")
	}

	h := httpserver.NewHandler(st, puzzle.NewManager())
	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpserver.NewMux(h, *webDir),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Infof("listening on %s, serving static from %s", *addr, *webDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logrus.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if *open {
		// 延迟 100ms 打开默认浏览器，否则可能服务器未启动完成
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + *addr)
		}()
	}

	if err := g.Wait(); err != nil {
		logrus.Errorf("server: %v", err)
		stop()
		os.Exit(1)
	}
}
