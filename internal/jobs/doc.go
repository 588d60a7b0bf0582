// Package jobs implements background tasks for the GameVault API.
//
// Jobs run independently of HTTP request handling and follow the same
// lifecycle: construct, Start, and Stop on shutdown. RunOnce triggers a
// single pass synchronously, which is what tests use.
//
//	probe := jobs.NewDependencyProbe(jobs.DependencyProbeConfig{
//	    Dependencies: map[string]jobs.Pinger{"store": db},
//	    Recorder:     recorder,
//	})
//	probe.Start()
//	defer probe.Stop()
//
// Jobs log errors and keep running; they never crash the application.
package jobs
