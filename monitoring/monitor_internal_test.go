package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/csim/cache"
)

type stubCounterSource struct {
	counters map[string]uint64
}

func (s stubCounterSource) Counters() map[string]uint64 {
	return s.counters
}

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		router *mux.Router
	)

	BeforeEach(func() {
		m = NewMonitor()

		router = mux.NewRouter()
		router.HandleFunc("/api/counters", m.listCounters)
		router.HandleFunc("/api/progress", m.listProgressBars)
		router.HandleFunc("/api/geometry", m.cacheGeometry)
		router.HandleFunc("/api/set/{index}", m.listSetDetails)
	})

	It("should list the registered counters", func() {
		m.RegisterCounters(stubCounterSource{
			counters: map[string]uint64{"hits": 3, "misses": 1},
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/counters", nil)
		router.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusOK))

		counters := map[string]uint64{}
		Expect(json.Unmarshal(w.Body.Bytes(), &counters)).To(Succeed())
		Expect(counters).To(HaveKeyWithValue("hits", uint64(3)))
		Expect(counters).To(HaveKeyWithValue("misses", uint64(1)))
	})

	It("should list empty counters before a source is registered",
		func() {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/counters", nil)
			router.ServeHTTP(w, r)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("{}"))
		})

	It("should report the cache geometry", func() {
		c := cache.MakeBuilder().
			WithSetIndexBits(2).
			WithBlockOffsetBits(3).
			WithAssociativity(2).
			Build("Cache")
		m.RegisterCache(c)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/geometry", nil)
		router.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusOK))

		rsp := geometryRsp{}
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.NumSets).To(Equal(4))
		Expect(rsp.Associativity).To(Equal(2))
		Expect(rsp.BlockSize).To(Equal(uint64(8)))
	})

	It("should 404 the geometry before a cache is registered", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/geometry", nil)
		router.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should serialize a set", func() {
		c := cache.MakeBuilder().
			WithSetIndexBits(1).
			WithBlockOffsetBits(1).
			WithAssociativity(1).
			Build("Cache")
		c.Access(0, 0x4, true)
		m.RegisterCache(c)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/set/0", nil)
		router.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should 404 an out-of-range set index", func() {
		c := cache.MakeBuilder().
			WithSetIndexBits(1).
			WithBlockOffsetBits(1).
			WithAssociativity(1).
			Build("Cache")
		m.RegisterCache(c)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/set/2", nil)
		router.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject a non-numeric set index", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/set/abc", nil)
		router.ServeHTTP(w, r)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should track progress bars", func() {
		bar := m.CreateProgressBar("Trace", 100)
		bar.IncrementFinished(42)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
		router.ServeHTTP(w, r)

		var bars []ProgressBar
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("Trace"))
		Expect(bars[0].Finished).To(Equal(uint64(42)))

		m.CompleteProgressBar(bar)

		w = httptest.NewRecorder()
		r = httptest.NewRequest(http.MethodGet, "/api/progress", nil)
		router.ServeHTTP(w, r)

		bars = nil
		Expect(json.Unmarshal(w.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(BeEmpty())
	})
})
