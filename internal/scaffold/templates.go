package scaffold

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// DefaultDatabaseURL is the SQLAlchemy URL used when the project config
// does not specify one. SQLite keeps the starter project runnable without
// any database server.
const DefaultDatabaseURL = "sqlite:///./app.db"

// gitignoreContent is written verbatim into a fresh .gitignore.
// It covers the artifacts this tool itself produces (.venv, .env) plus
// the usual Python byte-code noise.
const gitignoreContent = `.venv/
__pycache__/
*.py[cod]
.env
*.db
`

// envTemplate renders the .env file consumed by pydantic-settings.
const envTemplate = `DATABASE_URL={{.DatabaseURL}}
SECRET_KEY=change-me
DEBUG=true
`

// starterData is the substitution context for starter templates.
type starterData struct {
	ProjectName string
	DatabaseURL string
}

// starterTemplates maps app/ file names to their starter content.
// __init__.py is intentionally absent: it stays empty in both modes.
//
// The content follows the conventional FastAPI + SQLAlchemy layering:
// database.py owns the engine and session, models.py the ORM classes,
// schemas.py the pydantic request/response types, crud.py the data
// access functions, and main.py the application wiring.
var starterTemplates = map[string]string{
	"main.py": `from fastapi import FastAPI

from app.database import Base, engine

Base.metadata.create_all(bind=engine)

app = FastAPI(title="{{.ProjectName}}")


@app.get("/health")
def health() -> dict:
    return {"status": "ok"}
`,

	"database.py": `import os

from sqlalchemy import create_engine
from sqlalchemy.orm import DeclarativeBase, sessionmaker

DATABASE_URL = os.getenv("DATABASE_URL", "{{.DatabaseURL}}")

engine = create_engine(DATABASE_URL)
SessionLocal = sessionmaker(autocommit=False, autoflush=False, bind=engine)


class Base(DeclarativeBase):
    pass


def get_db():
    db = SessionLocal()
    try:
        yield db
    finally:
        db.close()
`,

	"models.py": `from sqlalchemy import Integer, String
from sqlalchemy.orm import Mapped, mapped_column

from app.database import Base


class Item(Base):
    __tablename__ = "items"

    id: Mapped[int] = mapped_column(Integer, primary_key=True, index=True)
    name: Mapped[str] = mapped_column(String(255), index=True)
`,

	"schemas.py": `from pydantic import BaseModel


class ItemCreate(BaseModel):
    name: str


class ItemRead(BaseModel):
    id: int
    name: str

    model_config = {"from_attributes": True}
`,

	"crud.py": `from sqlalchemy.orm import Session

from app import models, schemas


def create_item(db: Session, item: schemas.ItemCreate) -> models.Item:
    db_item = models.Item(name=item.name)
    db.add(db_item)
    db.commit()
    db.refresh(db_item)
    return db_item


def get_item(db: Session, item_id: int) -> models.Item | None:
    return db.get(models.Item, item_id)
`,
}

// RenderStarter renders the starter content for the named app/ file.
// Files without starter content (e.g. __init__.py) render to empty.
func RenderStarter(name string, opts Options) ([]byte, error) {
	text, ok := starterTemplates[name]
	if !ok {
		return []byte{}, nil
	}

	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("invalid starter template for %s", name), err)
	}

	var buf bytes.Buffer
	data := starterData{ProjectName: opts.ProjectName, DatabaseURL: opts.DatabaseURL}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to render starter template for %s", name), err)
	}
	return buf.Bytes(), nil
}

// renderEnv renders the .env file content. The template has no failure
// modes at runtime (static text plus one substitution), so errors are
// treated as programmer mistakes.
func renderEnv(opts Options) string {
	tmpl := template.Must(template.New(".env").Parse(envTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, starterData{DatabaseURL: opts.DatabaseURL}); err != nil {
		panic(err)
	}
	return buf.String()
}
