package dataset

import (
	"fmt"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

const (
	shapefileOpenErrorTemplateConstant = "unable to open shapefile %s: %w"
	geometryColumnNameConstant         = "geometry"
	dbfNumericFieldTypeConstant        = 'N'
	dbfFloatFieldTypeConstant          = 'F'
	dbfLogicalFieldTypeConstant        = 'L'
	dbfLogicalTrueValuesConstant       = "TtYy"
	dbfLogicalFalseValuesConstant      = "FfNn"
)

var shapeTypeNames = map[shp.ShapeType]string{
	shp.NULL:        "Null",
	shp.POINT:       "Point",
	shp.POLYLINE:    "PolyLine",
	shp.POLYGON:     "Polygon",
	shp.MULTIPOINT:  "MultiPoint",
	shp.POINTZ:      "PointZ",
	shp.POLYLINEZ:   "PolyLineZ",
	shp.POLYGONZ:    "PolygonZ",
	shp.MULTIPOINTZ: "MultiPointZ",
	shp.POINTM:      "PointM",
	shp.POLYLINEM:   "PolyLineM",
	shp.POLYGONM:    "PolygonM",
	shp.MULTIPOINTM: "MultiPointM",
	shp.MULTIPATCH:  "MultiPatch",
}

// ShapefileProvider loads datasets from ESRI shapefiles, exposing DBF attributes
// as typed columns and a synthetic geometry column describing each feature.
type ShapefileProvider struct{}

// NewShapefileProvider constructs a shapefile-backed dataset provider.
func NewShapefileProvider() *ShapefileProvider {
	return &ShapefileProvider{}
}

// Load reads the shapefile at the provided path into an immutable Table.
func (provider *ShapefileProvider) Load(shapefilePath string) (*Table, error) {
	shapefileReader, openError := shp.Open(shapefilePath)
	if openError != nil {
		return nil, fmt.Errorf(shapefileOpenErrorTemplateConstant, shapefilePath, openError)
	}
	defer shapefileReader.Close()

	fields := shapefileReader.Fields()
	attributeColumns := make([]Column, len(fields))
	for fieldPosition, field := range fields {
		attributeColumns[fieldPosition] = Column{Name: field.String()}
	}
	geometryColumn := Column{Name: geometryColumnNameConstant}

	for rowIndex := 0; shapefileReader.Next(); rowIndex++ {
		_, shape := shapefileReader.Shape()
		geometryColumn.Values = append(geometryColumn.Values, geometryValueForShape(shape))

		for fieldPosition, field := range fields {
			rawAttribute := shapefileReader.ReadAttribute(rowIndex, fieldPosition)
			attributeColumns[fieldPosition].Values = append(attributeColumns[fieldPosition].Values, convertAttributeValue(field, rawAttribute))
		}
	}
	if readError := shapefileReader.Err(); readError != nil {
		return nil, fmt.Errorf(shapefileOpenErrorTemplateConstant, shapefilePath, readError)
	}

	tableColumns := append(attributeColumns, geometryColumn)
	return NewTable(tableColumns)
}

func geometryValueForShape(shape shp.Shape) any {
	if shape == nil {
		return nil
	}

	for shapeType, shapeTypeName := range shapeTypeNames {
		if shapeMatchesType(shape, shapeType) {
			return Geometry{ShapeType: shapeTypeName}
		}
	}
	return Geometry{}
}

func shapeMatchesType(shape shp.Shape, shapeType shp.ShapeType) bool {
	switch shape.(type) {
	case *shp.Point:
		return shapeType == shp.POINT
	case *shp.PolyLine:
		return shapeType == shp.POLYLINE
	case *shp.Polygon:
		return shapeType == shp.POLYGON
	case *shp.MultiPoint:
		return shapeType == shp.MULTIPOINT
	case *shp.PointZ:
		return shapeType == shp.POINTZ
	case *shp.PolyLineZ:
		return shapeType == shp.POLYLINEZ
	case *shp.PolygonZ:
		return shapeType == shp.POLYGONZ
	case *shp.MultiPointZ:
		return shapeType == shp.MULTIPOINTZ
	case *shp.PointM:
		return shapeType == shp.POINTM
	case *shp.PolyLineM:
		return shapeType == shp.POLYLINEM
	case *shp.PolygonM:
		return shapeType == shp.POLYGONM
	case *shp.MultiPointM:
		return shapeType == shp.MULTIPOINTM
	case *shp.MultiPatch:
		return shapeType == shp.MULTIPATCH
	case *shp.Null:
		return shapeType == shp.NULL
	default:
		return false
	}
}

func convertAttributeValue(field shp.Field, rawAttribute string) any {
	trimmedAttribute := strings.TrimSpace(rawAttribute)
	if len(trimmedAttribute) == 0 {
		return nil
	}

	switch field.Fieldtype {
	case dbfNumericFieldTypeConstant, dbfFloatFieldTypeConstant:
		if field.Precision == 0 {
			if integerValue, parseError := strconv.ParseInt(trimmedAttribute, 10, 64); parseError == nil {
				return integerValue
			}
		}
		if floatValue, parseError := strconv.ParseFloat(trimmedAttribute, 64); parseError == nil {
			return floatValue
		}
		return trimmedAttribute
	case dbfLogicalFieldTypeConstant:
		if strings.ContainsAny(trimmedAttribute, dbfLogicalTrueValuesConstant) {
			return true
		}
		if strings.ContainsAny(trimmedAttribute, dbfLogicalFalseValuesConstant) {
			return false
		}
		return nil
	default:
		return trimmedAttribute
	}
}
