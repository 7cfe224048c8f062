// Command zkload generates a small amount of steady ZooKeeper traffic
// against a real ensemble, so zkproxy has something to tap while testing.
// It creates, reads, and rewrites a handful of znodes on a timer until
// interrupted.
package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/samuel/go-zookeeper/zk"
	"go.uber.org/zap"
)

var (
	servers  = flag.String("servers", "127.0.0.1:2181", "comma-separated ZooKeeper ensemble addresses")
	paths    = flag.String("paths", "/zkload-a,/zkload-b", "comma-separated znode paths to churn")
	interval = flag.Duration("interval", time.Second, "how often to touch every path")
)

var contents = []byte("zkload")

func churn(logger *zap.Logger, stop <-chan struct{}, tick <-chan time.Time, conn *zk.Conn, nodes []string) {
	for {
		select {
		case <-tick:
			for _, node := range nodes {
				touch(logger, conn, node)
			}
		case <-stop:
			logger.Info("stopping load generator")
			return
		}
	}
}

func touch(logger *zap.Logger, conn *zk.Conn, path string) {
	exists, stat, err := conn.Exists(path)
	if err != nil {
		logger.Warn("exists failed", zap.String("path", path), zap.Error(err))
		return
	}
	if !exists {
		if _, err := conn.Create(path, contents, 0, zk.WorldACL(zk.PermAll)); err != nil {
			logger.Warn("create failed", zap.String("path", path), zap.Error(err))
		}
		return
	}

	if _, _, err := conn.Get(path); err != nil {
		logger.Warn("get failed", zap.String("path", path), zap.Error(err))
		return
	}

	if _, err := conn.Set(path, contents, stat.Version); err != nil {
		logger.Warn("set failed", zap.String("path", path), zap.Error(err))
	}
}

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ensemble := strings.Split(*servers, ",")
	conn, _, err := zk.Connect(ensemble, time.Second*5)
	if err != nil {
		logger.Fatal("failed to connect", zap.Strings("servers", ensemble), zap.Error(err))
	}
	defer conn.Close()

	nodes := strings.Split(*paths, ",")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	go churn(logger, stop, ticker.C, conn, nodes)

	<-sig
	close(stop)
}
