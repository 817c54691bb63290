package naming

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Name", func() {
	It("should parse name", func() {
		name := ParseName("Line.Node[3].TxQueue")

		Expect(name.Tokens).To(HaveLen(3))
		Expect(name.Tokens[0].ElemName).To(Equal("Line"))
		Expect(name.Tokens[0].Index).To(BeEmpty())
		Expect(name.Tokens[1].ElemName).To(Equal("Node"))
		Expect(name.Tokens[1].Index).To(Equal([]int{3}))
		Expect(name.Tokens[2].ElemName).To(Equal("TxQueue"))
	})

	It("should parse multi-dimensional index", func() {
		name := ParseName("Grid[0][1]")
		Expect(name.Tokens[0].ElemName).To(Equal("Grid"))
		Expect(name.Tokens[0].Index).To(Equal([]int{0, 1}))
	})

	DescribeTable("should reject invalid names",
		func(name string) {
			Expect(func() { NameMustBeValid(name) }).To(Panic())
		},
		Entry("empty", ""),
		Entry("underscore", "Node_0"),
		Entry("dash", "Node-0"),
		Entry("space", "Node 0"),
		Entry("lower case", "node0"),
		Entry("open bracket", "Node[0"),
		Entry("close bracket", "Node0]"),
		Entry("text index", "Node[a]"),
		Entry("empty element", "Line..Medium"),
		Entry("trailing dot", "Line."),
	)

	It("should accept the names of a line", func() {
		Expect(func() { NameMustBeValid("Line.Node[7].TxQueue") }).
			NotTo(Panic())
		Expect(func() { NameMustBeValid("Line.Medium") }).NotTo(Panic())
	})

	It("should build name", func() {
		Expect(BuildName("", "Line")).To(Equal("Line"))
		Expect(BuildName("Line", "Medium")).To(Equal("Line.Medium"))
	})

	It("should build name with index", func() {
		Expect(BuildNameWithIndex("", "Node", 0)).To(Equal("Node[0]"))
		Expect(BuildNameWithIndex("Line", "Node", 3)).To(Equal("Line.Node[3]"))
	})
})
