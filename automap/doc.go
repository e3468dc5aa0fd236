// Package automap builds persistence mappings for Go structs by convention.
//
// Every struct is described once as an Entity: an ordered list of Member
// descriptors (name, Go type, kind, visibility, tags). A PersistenceModel
// hands each candidate member to an ordered registry of MemberMappers; the
// first mapper whose MapsMember reports true adds the member to the entity's
// ClassMap. A ConventionFinder supplies table, column and key names that the
// struct tags do not set explicitly.
//
//	model := automap.NewPrivateAutoPersistenceModel().
//		AddTypes(Author{}, Book{}).
//		Override("Book", func(cm *automap.ClassMap) error {
//			return cm.RenameColumn("title", "book_title")
//		})
//	maps, err := model.Build()
//
// Class maps returned by Build are frozen and safe to share.
package automap
