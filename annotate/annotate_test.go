package annotate_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/concourse/ond-art-validator/annotate"
)

var _ = Describe("Annotator", func() {
	var (
		buf *bytes.Buffer
		a   *annotate.Annotator
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		a = annotate.New(buf)
	})

	It("emits error annotations attributed to a file", func() {
		a.Error("reports/run.json", "data.invalid_count (11) > data.N (10)")
		Expect(buf.String()).To(Equal("::error file=reports/run.json::data.invalid_count (11) > data.N (10)\n"))
	})

	It("emits warning annotations", func() {
		a.Warning("reports/run.json", "notes missing standard disclaimer")
		Expect(buf.String()).To(Equal("::warning file=reports/run.json::notes missing standard disclaimer\n"))
	})

	It("wraps output in log groups", func() {
		a.Group("Schema errors in reports/run.json")
		a.Error("reports/run.json", "boom")
		a.EndGroup()
		Expect(buf.String()).To(Equal(
			"::group::Schema errors in reports/run.json\n" +
				"::error file=reports/run.json::boom\n" +
				"::endgroup::\n"))
	})

	It("writes plain lines through Infof", func() {
		a.Infof("✅ %s: OK (schema + invariants)", "reports/run.json")
		Expect(buf.String()).To(Equal("✅ reports/run.json: OK (schema + invariants)\n"))
	})
})

var _ = Describe("Summary", func() {
	It("appends lines to the sink file", func() {
		dir, err := os.MkdirTemp("", "summary-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(dir) })

		path := filepath.Join(dir, "summary.md")
		s := annotate.NewSummary(path)
		Expect(s.WriteLine("# OND-ART validation")).To(Succeed())
		Expect(s.WriteLine("")).To(Succeed())

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("# OND-ART validation\n\n"))
	})

	It("appends to pre-existing content", func() {
		dir, err := os.MkdirTemp("", "summary-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(dir) })

		path := filepath.Join(dir, "summary.md")
		Expect(os.WriteFile(path, []byte("earlier step\n"), 0644)).To(Succeed())

		Expect(annotate.NewSummary(path).WriteLine("this step")).To(Succeed())

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("earlier step\nthis step\n"))
	})

	It("discards writes when no sink is configured", func() {
		Expect(annotate.NewSummary("").WriteLine("ignored")).To(Succeed())
	})

	It("surfaces an unwritable sink", func() {
		Expect(annotate.NewSummary("/no/such/dir/summary.md").WriteLine("x")).NotTo(Succeed())
	})
})
