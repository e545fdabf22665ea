package query

import (
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/ontograph/errors"
)

const (
	opEq  = "="
	opNe  = "!="
	opAnd = "and"
	opOr  = "or"
)

// ParseExpression reads the text form of a filter:
//
//	.title = "Person" and .version = latest
//	.leftEntity.uuid = 3f1c... or .rightEntity.uuid = 3f1c...
//
// Words are split the way a shell splits them. Clauses are joined by
// "and" or by "or", never both. A clause is two or more operands separated
// by the same operator, "=" or "!=". Operands starting with '.' are paths;
// null, true, false and numbers are literals; anything else is text.
func ParseExpression(input string) (Expression, error) {
	words, err := shellquote.Split(input)
	if err != nil {
		return nil, errors.MarkDeserialization(errors.Wrap(err, "split expression"))
	}
	if len(words) == 0 {
		return nil, errors.MarkDeserialization(errors.New("empty expression"))
	}

	var (
		clauses [][]string
		current []string
		joiner  string
	)
	for _, word := range words {
		if word != opAnd && word != opOr {
			current = append(current, word)
			continue
		}
		if joiner != "" && joiner != word {
			return nil, errors.MarkDeserialization(errors.Newf("cannot mix %q and %q without grouping", joiner, word))
		}
		joiner = word
		clauses = append(clauses, current)
		current = nil
	}
	clauses = append(clauses, current)

	exprs := make([]Expression, 0, len(clauses))
	for _, clause := range clauses {
		expr, err := parseClause(clause)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	switch {
	case len(exprs) == 1:
		return exprs[0], nil
	case joiner == opOr:
		return AnyExpr{Expressions: exprs}, nil
	default:
		return AllExpr{Expressions: exprs}, nil
	}
}

func parseClause(words []string) (Expression, error) {
	if len(words) == 0 {
		return nil, errors.MarkDeserialization(errors.New("empty clause"))
	}

	var (
		operator string
		operands []Expression
	)
	for i, word := range words {
		if i%2 == 1 {
			if word != opEq && word != opNe {
				return nil, errors.MarkDeserialization(errors.Newf("expected %q or %q, got %q", opEq, opNe, word))
			}
			if operator != "" && operator != word {
				return nil, errors.MarkDeserialization(errors.Newf("clause %q mixes operators", strings.Join(words, " ")))
			}
			operator = word
			continue
		}
		operands = append(operands, parseOperand(word))
	}
	if len(words)%2 == 0 || operator == "" {
		return nil, errors.MarkDeserialization(errors.Newf("incomplete comparison %q", strings.Join(words, " ")))
	}

	if operator == opNe {
		return NeExpr{Operands: operands}, nil
	}
	return EqExpr{Operands: operands}, nil
}

func parseOperand(word string) Expression {
	if strings.HasPrefix(word, ".") && len(word) > 1 {
		return PathExpr{Tokens: strings.Split(word[1:], ".")}
	}
	switch word {
	case "null":
		return LiteralExpr{Value: nil}
	case "true":
		return LiteralExpr{Value: true}
	case "false":
		return LiteralExpr{Value: false}
	}
	if n, err := strconv.ParseFloat(word, 64); err == nil {
		return LiteralExpr{Value: n}
	}
	return LiteralExpr{Value: word}
}

// ParseFilter parses the text form straight into a filter over P.
func ParseFilter[P Path](input string) (Filter[P], error) {
	expr, err := ParseExpression(input)
	if err != nil {
		return Filter[P]{}, err
	}
	f, err := FromExpression[P](expr)
	if err != nil {
		return Filter[P]{}, errors.MarkDeserialization(err)
	}
	return f, nil
}
