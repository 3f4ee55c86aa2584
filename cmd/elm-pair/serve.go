package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elm-pair/elm-pair/internal/config"
	"github.com/elm-pair/elm-pair/internal/daemonstatus"
	"github.com/elm-pair/elm-pair/internal/gate"
	introspectpkg "github.com/elm-pair/elm-pair/internal/introspect"
	"github.com/elm-pair/elm-pair/internal/kb"
	"github.com/elm-pair/elm-pair/internal/project"
	"github.com/elm-pair/elm-pair/internal/session"
	"github.com/elm-pair/elm-pair/internal/syntax"
	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, args []string) error {
	start := "."
	if len(args) == 1 {
		start = args[0]
	}

	root, err := project.Discover(start)
	if err != nil {
		return fmt.Errorf("discover project: %w", err)
	}

	if !quiet {
		fmt.Printf("elm-pair\n--------\nProject: %s\n", root)
	}

	elmPairDir, err := elmPairDirFor(root)
	if err != nil {
		return fmt.Errorf("resolve .elm-pair directory: %w", err)
	}
	cfg, err := config.Load(filepath.Join(elmPairDir, "config.json"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	snapshot, err := kb.OpenSnapshot(filepath.Join(elmPairDir, "index.db"))
	if err != nil {
		return fmt.Errorf("open index snapshot: %w", err)
	}
	defer snapshot.Close()

	store, err := kb.BuildStoreWithSnapshot(root, snapshot)
	if err != nil {
		return fmt.Errorf("build knowledge base: %w", err)
	}
	hot := kb.NewHotSwap(store)

	binary := elmBinary
	if binary == "" {
		binary = os.Getenv("ELM_BINARY_PATH")
	}
	binary = cfg.ElmBinary(binary)
	timeout := cfg.GateTimeout(5 * time.Second)
	g := gate.New(root, binary, timeout)

	socketPath, err := socketPathFor(root)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	srv, err := session.Listen(socketPath, hot, g)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer srv.Close()

	statusPath, err := statusPathFor(root)
	if err != nil {
		return fmt.Errorf("resolve status path: %w", err)
	}
	status, err := daemonstatus.Open(statusPath, socketPath, root)
	if err != nil {
		return fmt.Errorf("open status file: %w", err)
	}
	defer status.Close()

	watcher, err := project.NewWatcher(root)
	if err != nil {
		return fmt.Errorf("watch project: %w", err)
	}
	defer watcher.Close()

	if !quiet {
		fmt.Printf("Socket: %s\nPress Ctrl-C to stop.\n", socketPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watchLoop(ctx, root, hot, watcher, status, snapshot)

	if introspect {
		introspectSrv := introspectpkg.New(hot, srv)
		go func() {
			if err := introspectSrv.Serve(ctx); err != nil {
				log.Printf("elm-pair: introspection server stopped: %v", err)
			}
		}()
	}

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- srv.Serve(ctx) }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sig:
		if !quiet {
			fmt.Println("\nShutting down...")
		}
		cancel()
		return nil
	case err := <-serveErrCh:
		return err
	}
}

// watchLoop applies filesystem changes that originate outside any editor
// session to the shared knowledge base: an ordinary .elm edit is
// incrementally re-absorbed, an elm.json change triggers a full rescan
// installed via HotSwap so in-flight reads never see a half-rebuilt store.
func watchLoop(ctx context.Context, root string, hot *kb.HotSwap, watcher *project.Watcher, status *daemonstatus.Status, snapshot *kb.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-watcher.Changes():
			if !ok {
				return
			}
			if change.Rescan {
				fresh, err := kb.BuildStoreWithSnapshot(root, snapshot)
				if err != nil {
					log.Printf("elm-pair: rescan failed: %v", err)
					continue
				}
				hot.Swap(fresh)
				status.BumpGeneration()
				continue
			}

			content, err := os.ReadFile(change.Path)
			if err != nil {
				// File removed externally; drop its contribution.
				continue
			}
			parser := syntax.NewParser()
			tree, err := parser.ParseCtx(ctx, nil, content)
			if err != nil {
				log.Printf("elm-pair: reparse %s: %v", change.Path, err)
				continue
			}
			fileID := hot.Current().FileIDForPath(change.Path)
			if err := hot.Current().UpdateFile(fileID, change.Path, tree.RootNode(), content); err != nil {
				log.Printf("elm-pair: update %s: %v", change.Path, err)
				continue
			}
			status.BumpGeneration()
		case err, ok := <-watcher.Errors():
			if !ok {
				return
			}
			log.Printf("elm-pair: watcher error: %v", err)
		}
	}
}
