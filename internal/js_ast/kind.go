package js_ast

// Kind is the closed set of syntax node kinds the bundler understands. The
// parser maps every named grammar symbol onto one of these. Grammar symbols
// that aren't listed become KindUnknown, which the analyzer rejects with a
// located error instead of guessing at their meaning.
type Kind uint8

const (
	KindNone Kind = iota
	KindUnknown
	KindToken
	KindError
	KindComment
	KindHashBangLine
	KindJSX

	KindProgram

	// Module syntax
	KindImport
	KindImportStatement
	KindImportClause
	KindNamespaceImport
	KindNamedImports
	KindImportSpecifier
	KindImportAttribute
	KindExportStatement
	KindExportClause
	KindExportSpecifier
	KindNamespaceExport

	// Statements
	KindExpressionStatement
	KindVariableDeclaration
	KindLexicalDeclaration
	KindVariableDeclarator
	KindStatementBlock
	KindIfStatement
	KindElseClause
	KindSwitchStatement
	KindSwitchBody
	KindSwitchCase
	KindSwitchDefault
	KindForStatement
	KindForInStatement
	KindWhileStatement
	KindDoStatement
	KindTryStatement
	KindCatchClause
	KindFinallyClause
	KindWithStatement
	KindBreakStatement
	KindContinueStatement
	KindReturnStatement
	KindThrowStatement
	KindEmptyStatement
	KindLabeledStatement
	KindDebuggerStatement

	// Functions and classes
	KindFunctionDeclaration
	KindGeneratorFunctionDeclaration
	KindFunctionExpression
	KindGeneratorFunction
	KindArrowFunction
	KindFormalParameters
	KindClassDeclaration
	KindClass
	KindClassHeritage
	KindClassBody
	KindMethodDefinition
	KindFieldDefinition
	KindClassStaticBlock
	KindDecorator

	// Names
	KindIdentifier
	KindPropertyIdentifier
	KindShorthandPropertyIdentifier
	KindShorthandPropertyIdentifierPattern
	KindPrivatePropertyIdentifier
	KindStatementIdentifier

	// Literals
	KindThis
	KindSuper
	KindTrue
	KindFalse
	KindNull
	KindUndefined
	KindNumber
	KindString
	KindStringFragment
	KindEscapeSequence
	KindTemplateString
	KindTemplateSubstitution
	KindRegex
	KindRegexPattern
	KindRegexFlags

	// Object and array literals and patterns
	KindObject
	KindObjectPattern
	KindArray
	KindArrayPattern
	KindPair
	KindPairPattern
	KindSpreadElement
	KindRestPattern
	KindAssignmentPattern
	KindObjectAssignmentPattern
	KindComputedPropertyName

	// Expressions
	KindParenthesizedExpression
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindSubscriptExpression
	KindOptionalChain
	KindArguments
	KindAssignmentExpression
	KindAugmentedAssignmentExpression
	KindAwaitExpression
	KindUnaryExpression
	KindBinaryExpression
	KindUpdateExpression
	KindTernaryExpression
	KindSequenceExpression
	KindYieldExpression
	KindMetaProperty
)

var grammarSymbols = map[string]Kind{
	"ERROR":            KindError,
	"comment":          KindComment,
	"html_comment":     KindComment,
	"hash_bang_line":   KindHashBangLine,
	"program":          KindProgram,
	"import":           KindImport,
	"import_statement": KindImportStatement,
	"import_clause":    KindImportClause,
	"namespace_import": KindNamespaceImport,
	"named_imports":    KindNamedImports,
	"import_specifier": KindImportSpecifier,
	"import_attribute": KindImportAttribute,
	"import_assertion": KindImportAttribute,
	"export_statement": KindExportStatement,
	"export_clause":    KindExportClause,
	"export_specifier": KindExportSpecifier,
	"namespace_export": KindNamespaceExport,

	"expression_statement": KindExpressionStatement,
	"variable_declaration": KindVariableDeclaration,
	"lexical_declaration":  KindLexicalDeclaration,
	"variable_declarator":  KindVariableDeclarator,
	"statement_block":      KindStatementBlock,
	"if_statement":         KindIfStatement,
	"else_clause":          KindElseClause,
	"switch_statement":     KindSwitchStatement,
	"switch_body":          KindSwitchBody,
	"switch_case":          KindSwitchCase,
	"switch_default":       KindSwitchDefault,
	"for_statement":        KindForStatement,
	"for_in_statement":     KindForInStatement,
	"while_statement":      KindWhileStatement,
	"do_statement":         KindDoStatement,
	"try_statement":        KindTryStatement,
	"catch_clause":         KindCatchClause,
	"finally_clause":       KindFinallyClause,
	"with_statement":       KindWithStatement,
	"break_statement":      KindBreakStatement,
	"continue_statement":   KindContinueStatement,
	"return_statement":     KindReturnStatement,
	"throw_statement":      KindThrowStatement,
	"empty_statement":      KindEmptyStatement,
	"labeled_statement":    KindLabeledStatement,
	"debugger_statement":   KindDebuggerStatement,

	"function_declaration":           KindFunctionDeclaration,
	"generator_function_declaration": KindGeneratorFunctionDeclaration,
	"function":                       KindFunctionExpression,
	"function_expression":            KindFunctionExpression,
	"generator_function":             KindGeneratorFunction,
	"arrow_function":                 KindArrowFunction,
	"formal_parameters":              KindFormalParameters,
	"class_declaration":              KindClassDeclaration,
	"class":                          KindClass,
	"class_heritage":                 KindClassHeritage,
	"class_body":                     KindClassBody,
	"method_definition":              KindMethodDefinition,
	"field_definition":               KindFieldDefinition,
	"class_static_block":             KindClassStaticBlock,
	"static_block":                   KindClassStaticBlock,
	"decorator":                      KindDecorator,

	"identifier":                            KindIdentifier,
	"property_identifier":                   KindPropertyIdentifier,
	"shorthand_property_identifier":         KindShorthandPropertyIdentifier,
	"shorthand_property_identifier_pattern": KindShorthandPropertyIdentifierPattern,
	"private_property_identifier":           KindPrivatePropertyIdentifier,
	"statement_identifier":                  KindStatementIdentifier,

	"this":                  KindThis,
	"super":                 KindSuper,
	"true":                  KindTrue,
	"false":                 KindFalse,
	"null":                  KindNull,
	"undefined":             KindUndefined,
	"number":                KindNumber,
	"string":                KindString,
	"string_fragment":       KindStringFragment,
	"escape_sequence":       KindEscapeSequence,
	"template_string":       KindTemplateString,
	"template_substitution": KindTemplateSubstitution,
	"regex":                 KindRegex,
	"regex_pattern":         KindRegexPattern,
	"regex_flags":           KindRegexFlags,

	"object":                    KindObject,
	"object_pattern":            KindObjectPattern,
	"array":                     KindArray,
	"array_pattern":             KindArrayPattern,
	"pair":                      KindPair,
	"pair_pattern":              KindPairPattern,
	"spread_element":            KindSpreadElement,
	"rest_pattern":              KindRestPattern,
	"assignment_pattern":        KindAssignmentPattern,
	"object_assignment_pattern": KindObjectAssignmentPattern,
	"computed_property_name":    KindComputedPropertyName,

	"parenthesized_expression":        KindParenthesizedExpression,
	"call_expression":                 KindCallExpression,
	"new_expression":                  KindNewExpression,
	"member_expression":               KindMemberExpression,
	"subscript_expression":            KindSubscriptExpression,
	"optional_chain":                  KindOptionalChain,
	"arguments":                       KindArguments,
	"assignment_expression":           KindAssignmentExpression,
	"augmented_assignment_expression": KindAugmentedAssignmentExpression,
	"await_expression":                KindAwaitExpression,
	"unary_expression":                KindUnaryExpression,
	"binary_expression":               KindBinaryExpression,
	"update_expression":               KindUpdateExpression,
	"ternary_expression":              KindTernaryExpression,
	"sequence_expression":             KindSequenceExpression,
	"yield_expression":                KindYieldExpression,
	"meta_property":                   KindMetaProperty,
}

// KindForSymbol maps a named grammar symbol onto its kind
func KindForSymbol(symbol string) Kind {
	if kind, ok := grammarSymbols[symbol]; ok {
		return kind
	}
	if len(symbol) > 4 && symbol[:4] == "jsx_" {
		return KindJSX
	}
	if symbol == "nested_identifier" || symbol == "html_character_reference" {
		return KindJSX
	}
	return KindUnknown
}
