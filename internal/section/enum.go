package section

type SectionType string

const (
	SectionTypeSource   SectionType = "source"
	SectionTypeTest     SectionType = "test"
	SectionTypeResource SectionType = "resource"
	SectionTypePYQ      SectionType = "pyq"
)

var AllSectionTypes = []SectionType{
	SectionTypeSource,
	SectionTypeTest,
	SectionTypeResource,
	SectionTypePYQ,
}

func (t SectionType) IsValid() bool {
	for _, v := range AllSectionTypes {
		if t == v {
			return true
		}
	}
	return false
}
