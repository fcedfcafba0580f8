package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"inzite-research-be/internal/bootstrap"
	"inzite-research-be/internal/config"
	"inzite-research-be/internal/server"
	"inzite-research-be/internal/tracer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(ctx, cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	// 3. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start research consumer: %v", err)
	}

	if container.EventAuditService != nil {
		if err := container.EventAuditService.Start(ctx); err != nil {
			log.Printf("Warning: research event audit disabled: %v", err)
		}
	}

	if cfg.Workflow.ResumeOnBoot {
		go func() {
			n, err := container.WorkflowService.Resume(ctx)
			if err != nil {
				log.Printf("Resume finished with error: %v", err)
				return
			}
			log.Printf("Resumed %d interrupted research session(s)", n)
		}()
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Shutdown()
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	container.ConsumerService.Wait()
}
