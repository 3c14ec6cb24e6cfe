package core

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// BlockInterval is the producer's tick period (spec §4.4, "every ~3 seconds").
const BlockInterval = 3 * time.Second

// Producer is the single long-lived block-production task: each tick it
// drains the mempool, drafts a block, signs it with the owner's key, and
// pushes it. Errors are logged and never stop the loop. Grounded on
// core/consensus_start.go's ticker + cooperative-exit-flag shape.
type Producer struct {
	chain  *Blockchain
	queue  *TransactionQueue
	signer *OperatorSigner
	exit   atomic.Bool
	done   chan struct{}
}

func NewProducer(chain *Blockchain, queue *TransactionQueue, signer *OperatorSigner) *Producer {
	return &Producer{chain: chain, queue: queue, signer: signer, done: make(chan struct{})}
}

// Run blocks until Stop is called or the process exits. Call it in its own
// goroutine.
func (p *Producer) Run() {
	ticker := time.NewTicker(BlockInterval)
	defer ticker.Stop()
	defer close(p.done)
	for {
		if p.exit.Load() {
			logrus.Info("producer: exit flag set, stopping")
			return
		}
		<-ticker.C
		if p.exit.Load() {
			logrus.Info("producer: exit flag set, stopping")
			return
		}
		p.tick()
	}
}

func (p *Producer) tick() {
	now := uint64(time.Now().Unix())
	block, err := p.chain.DraftBlock(p.queue, now)
	if err != nil {
		logrus.WithError(err).Error("producer: draft failed")
		return
	}
	if len(block.Txs) == 0 {
		// Still push: the append/pop-symmetry scenario in spec §8 expects
		// empty drafts to push and pop cleanly.
	}
	signed := block
	if p.signer != nil {
		signed, err = p.signer.SignBlock(block)
		if err != nil {
			logrus.WithError(err).Error("producer: signing failed")
			return
		}
	}
	if err := p.chain.PushBlock(signed); err != nil {
		logrus.WithError(err).Error("producer: push failed")
		return
	}
}

// Stop sets the cooperative exit flag; Run returns after at most one more
// sleep interval.
func (p *Producer) Stop() {
	p.exit.Store(true)
}

// Done is closed once Run has returned after Stop.
func (p *Producer) Done() <-chan struct{} { return p.done }
