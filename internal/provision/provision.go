// Package provision implements the certificate provisioning workflow.
//
// A run walks a fixed state machine:
//
//	Configuring → VerifyingLocal → ProbingSession → PreCleanup →
//	TransferringCert → TransferringKey → ConfiguringServices →
//	PostCleanup → Done
//
// Any fatal failure transitions directly to Failed; no state is retried
// automatically. The workflow is strictly sequential: certificate before
// key, services in list order, stop on first failure. The only suspension
// point is the fixed settle delay after each file transfer.
package provision

import (
	"context"
	"time"

	"github.com/ksyq12/certpush/internal/config"
	cperrors "github.com/ksyq12/certpush/internal/errors"
	"github.com/ksyq12/certpush/internal/localcert"
	"github.com/ksyq12/certpush/internal/logger"
	"github.com/ksyq12/certpush/internal/output"
	"github.com/ksyq12/certpush/internal/routeros"
)

// State identifies a phase of the provisioning run.
type State string

// Workflow states in execution order.
const (
	StateConfiguring         State = "Configuring"
	StateVerifyingLocal      State = "VerifyingLocal"
	StateProbingSession      State = "ProbingSession"
	StatePreCleanup          State = "PreCleanup"
	StateTransferringCert    State = "TransferringCert"
	StateTransferringKey     State = "TransferringKey"
	StateConfiguringServices State = "ConfiguringServices"
	StatePostCleanup         State = "PostCleanup"
	StateDone                State = "Done"
	StateFailed              State = "Failed"
)

// settleDelay is the fixed pause after a file transfer before import.
// The appliance needs a moment to register the new file; this is an
// empirical platform quirk, not a synchronization primitive.
const settleDelay = 2 * time.Second

// Artifact binds a local credential file to the names it takes on the
// appliance: the transient upload filename and the durable store name the
// import creates.
type Artifact struct {
	Name       string // "certificate" or "key"
	LocalPath  string
	RemoteName string // transient filename, deleted after import
	StoreName  string // certificate store entry name
}

// CertificateArtifact describes the certificate for a domain.
func CertificateArtifact(domain, localPath string) Artifact {
	return Artifact{
		Name:       cperrors.ArtifactCertificate,
		LocalPath:  localPath,
		RemoteName: domain + ".pem",
		StoreName:  domain + ".pem_0",
	}
}

// KeyArtifact describes the private key for a domain.
func KeyArtifact(domain, localPath string) Artifact {
	return Artifact{
		Name:       cperrors.ArtifactKey,
		LocalPath:  localPath,
		RemoteName: domain + ".key",
		StoreName:  domain + ".key_0",
	}
}

// Provisioner executes the whole workflow against one appliance.
type Provisioner struct {
	cfg      *config.Config
	ros      *routeros.Client
	services []routeros.Service
	sleep    func(time.Duration)
	state    State
}

// New creates a Provisioner with the default service list.
func New(cfg *config.Config, ros *routeros.Client) *Provisioner {
	return &Provisioner{
		cfg:      cfg,
		ros:      ros,
		services: routeros.DefaultServices(),
		sleep:    time.Sleep,
		state:    StateConfiguring,
	}
}

// SetServices replaces the ordered service list (for testing).
func (p *Provisioner) SetServices(services []routeros.Service) {
	p.services = services
}

// SetSleep replaces the settle-delay sleep function (for testing).
func (p *Provisioner) SetSleep(sleep func(time.Duration)) {
	p.sleep = sleep
}

// State returns the current workflow state.
func (p *Provisioner) State() State {
	return p.state
}

// StoreName returns the certificate store name services are bound to.
func (p *Provisioner) StoreName() string {
	return CertificateArtifact(p.cfg.Domain, p.cfg.Certificate).StoreName
}

func (p *Provisioner) transition(s State) {
	logger.Debug("State: %s -> %s", p.state, s)
	p.state = s
}

func (p *Provisioner) fail(err error) error {
	logger.Debug("State: %s -> %s (%v)", p.state, StateFailed, err)
	p.state = StateFailed
	return err
}

// Run executes the full provisioning workflow.
func (p *Provisioner) Run(ctx context.Context) error {
	cert := CertificateArtifact(p.cfg.Domain, p.cfg.Certificate)
	key := KeyArtifact(p.cfg.Domain, p.cfg.Key)

	p.transition(StateVerifyingLocal)
	if err := p.verifyLocal(cert, key); err != nil {
		return p.fail(err)
	}

	p.transition(StateProbingSession)
	output.Info("Probing %s:%s...", p.cfg.Host, p.cfg.Port)
	if _, err := p.ros.Probe(ctx); err != nil {
		return p.fail(cperrors.ProbeFailed(err))
	}

	p.transition(StatePreCleanup)
	p.cleanup(ctx, cert, key)

	p.transition(StateTransferringCert)
	if err := p.pushArtifact(ctx, cert); err != nil {
		return p.fail(err)
	}

	p.transition(StateTransferringKey)
	if err := p.pushArtifact(ctx, key); err != nil {
		return p.fail(err)
	}

	p.transition(StateConfiguringServices)
	if err := p.configureServices(ctx, cert.StoreName); err != nil {
		return p.fail(err)
	}

	p.transition(StatePostCleanup)
	p.cleanup(ctx, cert, key)

	p.transition(StateDone)
	output.Success("Certificate %s provisioned on %s", cert.StoreName, p.cfg.Host)
	return nil
}

// verifyLocal checks the local prerequisites in a fixed order, failing on
// the first unmet condition.
func (p *Provisioner) verifyLocal(cert, key Artifact) error {
	if err := localcert.VerifyCertificate(cert.LocalPath); err != nil {
		return err
	}
	if err := localcert.VerifyKey(key.LocalPath); err != nil {
		return err
	}

	// Advisory only: the appliance is the final judge of the material.
	info, err := localcert.Inspect(cert.LocalPath)
	if err != nil {
		logger.Warn("Could not inspect %s: %v", cert.LocalPath, err)
		return nil
	}
	if info.Expired() {
		output.Warn("Certificate %s expired on %s", cert.LocalPath, info.NotAfter.Format("2006-01-02"))
	}
	return nil
}

// pushArtifact runs the remove/transfer/settle/import sequence for one
// artifact. Store-entry removal is best-effort (expected to fail on a first
// run); transfer and import failures are fatal.
func (p *Provisioner) pushArtifact(ctx context.Context, a Artifact) error {
	output.Info("Removing old store entry %s...", a.StoreName)
	if err := p.ros.RemoveCertificate(ctx, a.StoreName); err != nil {
		logger.Debug("Store entry removal for %s: %v", a.StoreName, err)
	}

	output.Info("Uploading %s as %s...", a.LocalPath, a.RemoteName)
	if err := p.ros.Upload(ctx, a.LocalPath, a.RemoteName); err != nil {
		return cperrors.UploadFailed(a.Name, err)
	}
	p.sleep(settleDelay)

	output.Info("Importing %s...", a.RemoteName)
	if err := p.ros.ImportFile(ctx, a.RemoteName); err != nil {
		// Only a consumed-nothing import gets a second chance: a stale
		// store entry a failed pre-cleanup left behind can shadow the
		// target name. Every other import error is fatal as-is.
		if !cperrors.Is(err, routeros.ErrImportedNothing) {
			return cperrors.ImportFailed(a.Name, err)
		}
		logger.Warn("Import of %s consumed nothing, removing %s and retrying: %v", a.RemoteName, a.StoreName, err)
		if rmErr := p.ros.RemoveCertificate(ctx, a.StoreName); rmErr != nil {
			logger.Debug("Store entry removal for %s: %v", a.StoreName, rmErr)
		}
		if err := p.ros.ImportFile(ctx, a.RemoteName); err != nil {
			return cperrors.ImportFailed(a.Name, err)
		}
	}
	return nil
}

// configureServices binds every service in list order, stopping on the
// first failure. An identifier outside the known set aborts the run
// immediately, whatever its position: it indicates a bug in the service
// list, not a per-service condition.
func (p *Provisioner) configureServices(ctx context.Context, storeName string) error {
	for i, svc := range p.services {
		if !routeros.IsValidService(svc) {
			return cperrors.UnknownService(string(svc))
		}
		output.Info("Binding %s to %s...", svc, storeName)
		if err := p.ros.BindService(ctx, svc, storeName); err != nil {
			if cperrors.Is(err, cperrors.ErrUnknownService) {
				return err
			}
			return cperrors.ServiceFailed(i+1, string(svc), err)
		}
	}
	return nil
}

// cleanup removes the transient files from the appliance, best-effort.
// It runs before provisioning (a prior failed run may have left working
// files behind) and after (normal teardown). The import keeps a durable
// copy in the store either way, so failures never escalate.
func (p *Provisioner) cleanup(ctx context.Context, artifacts ...Artifact) {
	for _, a := range artifacts {
		if err := p.ros.RemoveFile(ctx, a.RemoteName); err != nil {
			logger.Debug("Cleanup of %s: %v", a.RemoteName, err)
		}
	}
}
