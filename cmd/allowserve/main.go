package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"

	"allowserve/internal/allowlist"
	"allowserve/internal/config"
	"allowserve/internal/render"
	"allowserve/internal/web"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("config error: %v", err)
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	if cfg.Render != "" {
		renderIndex(cfg)
	}

	list := allowlist.Build(cfg.Files)
	printBanner(cfg, list)

	l, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Fatalf("listen error: %v", err)
	}
	log.Printf("Server listening on %s", l.Addr())
	if cfg.Open {
		go func() {
			time.Sleep(250 * time.Millisecond)
			if err := openBrowser(urlForAddr(l.Addr().String())); err != nil {
				log.Printf("failed to open browser: %v", err)
			}
		}()
	}
	if err := web.NewServer(list).Serve(l); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func renderIndex(cfg config.Config) {
	renderer, err := render.New()
	if err != nil {
		log.Printf("template error: %v", err)
		return
	}
	target := cfg.RenderTarget()
	if err := renderer.RenderFile(cfg.Render, target, cfg.Title); err != nil {
		log.Printf("render %s failed: %v", cfg.Render, err)
		return
	}
	log.Printf("Rendered %s into %s", cfg.Render, target)
}

func printBanner(cfg config.Config, list *allowlist.List) {
	title := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)
	missing := color.New(color.FgYellow)

	title.Printf("Serving %d of %d files at %s\n", list.Len(), len(cfg.Files), urlForAddr(cfg.Addr))
	allowed := map[string]bool{}
	for _, entry := range list.Entries() {
		allowed[entry] = true
	}
	for _, file := range cfg.Files {
		if allowed[file] {
			ok.Printf("  + %s\n", file)
		} else {
			missing.Printf("  - %s (not found, skipped)\n", file)
		}
	}
	fmt.Println("Press Ctrl+C to stop")
}

func urlForAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + strings.TrimRight(addr, "/") + "/"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("http://%s:%s/", host, port)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	if isWSL() {
		cmd = exec.Command("cmd.exe", "/c", "start", "", url)
		return cmd.Start()
	}
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func isWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	for _, path := range []string{"/proc/version", "/proc/sys/kernel/osrelease"} {
		if data, err := os.ReadFile(path); err == nil && strings.Contains(strings.ToLower(string(data)), "microsoft") {
			return true
		}
	}
	return false
}
