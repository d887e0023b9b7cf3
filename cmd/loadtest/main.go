// Command loadtest drives concurrent clients against a running spellcheckd
// instance, each repeatedly checking words from a word list and reporting
// how many came back OK versus MISSPELLED. It plays the role the original
// package-indexer test harness's driver played for that server: an
// operator-run concurrency exerciser, not a correctness test.
package main

import (
	"flag"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"spellcheckd/internal/loadclient"
)

func main() {
	log := logrus.New()

	host := flag.String("host", "127.0.0.1", "host running spellcheckd")
	port := flag.Int("port", 2667, "port spellcheckd is listening on")
	concurrency := flag.Int("concurrency", 10, "number of concurrent clients")
	rounds := flag.Int("rounds", 20, "words each client checks before disconnecting")
	words := flag.String("words", "hello,world,xyzzy,recieve,the,definately", "comma-separated words to sample from")
	seed := flag.Int64("seed", 42, "random seed for word selection")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	wordList := strings.Split(*words, ",")
	rng := rand.New(rand.NewSource(*seed))

	var okTotal, misspelledTotal, errTotal int64
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		clientSeed := rng.Int63()
		go func(id int, seed int64) {
			defer wg.Done()
			runClient(log, id, *host, *port, wordList, *rounds, seed, &okTotal, &misspelledTotal, &errTotal)
		}(i, clientSeed)
	}
	wg.Wait()
	elapsed := time.Since(start)

	log.WithFields(logrus.Fields{
		"ok":          atomic.LoadInt64(&okTotal),
		"misspelled":  atomic.LoadInt64(&misspelledTotal),
		"errors":      atomic.LoadInt64(&errTotal),
		"elapsed":     elapsed.String(),
		"concurrency": *concurrency,
	}).Info("load run finished")

	if atomic.LoadInt64(&errTotal) > 0 {
		os.Exit(1)
	}
}

func runClient(log *logrus.Logger, id int, host string, port int, wordList []string, rounds int, seed int64, okTotal, misspelledTotal, errTotal *int64) {
	name := "load-" + strconv.Itoa(id)
	c, err := loadclient.Dial(name, host, port, log)
	if err != nil {
		log.WithError(err).WithField("client", name).Warn("dial failed")
		atomic.AddInt64(errTotal, 1)
		return
	}
	defer c.Close()

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < rounds; i++ {
		word := wordList[rng.Intn(len(wordList))]
		verdict, err := c.Check(word)
		if err != nil {
			log.WithError(err).WithField("client", name).Warn("check failed")
			atomic.AddInt64(errTotal, 1)
			return
		}
		switch verdict {
		case loadclient.OK:
			atomic.AddInt64(okTotal, 1)
		case loadclient.Misspelled:
			atomic.AddInt64(misspelledTotal, 1)
		default:
			atomic.AddInt64(errTotal, 1)
		}
	}
}
